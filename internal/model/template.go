// internal/model/template.go
package model

import "time"

// Template is the user-authored message content plus its trigger
// configuration. One row per (user, channel).
type Template struct {
	ID              int        `db:"id" json:"id"`
	UserID          int        `db:"user_id" json:"user_id"`
	Channel         string     `db:"channel" json:"channel"`
	Subject         string     `db:"subject" json:"subject,omitempty"` // email only
	Body            string     `db:"body" json:"body"`
	FromEmail       string     `db:"from_email" json:"from_email,omitempty"`
	SenderName      string     `db:"sender_name" json:"sender_name,omitempty"`
	InitialTrigger  string     `db:"initial_trigger" json:"initial_trigger"`
	InitialWaitDays int        `db:"initial_wait_days" json:"initial_wait_days"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
