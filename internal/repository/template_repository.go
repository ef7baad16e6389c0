package repository

import (
	"database/sql"
	"time"

	"github.com/reviewloop/reviewloop-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	GetByUserChannel(userID int, channel string) (*model.Template, error)
	GetByID(id int) (*model.Template, error)
	Upsert(t *model.Template) error
}

type TemplateRepository struct {
	DB *sql.DB
}

const templateColumns = `id, user_id, channel, subject, body, from_email,
	sender_name, initial_trigger, initial_wait_days, created_at, updated_at`

// GetByUserChannel returns nil, nil when the business has no template for
// the channel; absence is eligibility information, not an error.
func (r *TemplateRepository) GetByUserChannel(userID int, channel string) (*model.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE user_id=$1 AND channel=$2`
	return r.scanOne(r.DB.QueryRow(query, userID, channel))
}

func (r *TemplateRepository) GetByID(id int) (*model.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE id=$1`
	return r.scanOne(r.DB.QueryRow(query, id))
}

// Upsert creates or replaces the single template a business has per
// channel, keyed on the UNIQUE(user_id, channel) constraint.
func (r *TemplateRepository) Upsert(t *model.Template) error {
	now := time.Now()
	query := `
        INSERT INTO templates
            (user_id, channel, subject, body, from_email, sender_name,
             initial_trigger, initial_wait_days, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (user_id, channel) DO UPDATE
        SET subject=EXCLUDED.subject,
            body=EXCLUDED.body,
            from_email=EXCLUDED.from_email,
            sender_name=EXCLUDED.sender_name,
            initial_trigger=EXCLUDED.initial_trigger,
            initial_wait_days=EXCLUDED.initial_wait_days,
            updated_at=NOW()
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query,
		t.UserID, t.Channel, t.Subject, t.Body, t.FromEmail, t.SenderName,
		t.InitialTrigger, t.InitialWaitDays, now,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TemplateRepository) scanOne(row *sql.Row) (*model.Template, error) {
	var t model.Template
	var subject, fromEmail, senderName sql.NullString
	err := row.Scan(
		&t.ID, &t.UserID, &t.Channel, &subject, &t.Body, &fromEmail,
		&senderName, &t.InitialTrigger, &t.InitialWaitDays, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	t.Subject = subject.String
	t.FromEmail = fromEmail.String
	t.SenderName = senderName.String
	return &t, nil
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
