// internal/model/automation_job.go
package model

import "time"

// Channel values
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Job status values. Completed and failed are terminal.
const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// AutomationJob is one scheduled follow-up message: one row per
// (customer, event, channel). Recipient fields are a snapshot taken at
// scheduling time and are not re-resolved at dispatch.
type AutomationJob struct {
	ID             int        `db:"id" json:"id"`
	UserID         int        `db:"user_id" json:"user_id"`
	ReviewID       string     `db:"review_id" json:"review_id,omitempty"`
	CustomerID     string     `db:"customer_id" json:"customer_id,omitempty"`
	TemplateID     int        `db:"template_id" json:"template_id"`
	Channel        string     `db:"channel" json:"channel"`
	RecipientName  string     `db:"recipient_name" json:"recipient_name"`
	RecipientEmail string     `db:"recipient_email" json:"recipient_email,omitempty"`
	RecipientPhone string     `db:"recipient_phone" json:"recipient_phone,omitempty"`
	ScheduledFor   time.Time  `db:"scheduled_for" json:"scheduled_for"`
	Status         string     `db:"status" json:"status"`
	TriggerType    string     `db:"trigger_type" json:"trigger_type"`
	TriggerEvent   string     `db:"trigger_event" json:"trigger_event"`
	WaitDays       int        `db:"wait_days" json:"wait_days"`
	ErrorMessage   string     `db:"error_message" json:"error_message,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}
