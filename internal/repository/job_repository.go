package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/reviewloop/reviewloop-backend/internal/errors"
	"github.com/reviewloop/reviewloop-backend/internal/model"
)

// ErrAlreadyScheduled is returned by Insert when the unique constraint on
// (user_id, review_id, channel) fires. Concurrent schedule attempts both
// passing the pre-check land here; callers treat it as a no-op.
var ErrAlreadyScheduled = errors.New("job already scheduled")

type JobRepositoryInterface interface {
	Insert(job *model.AutomationJob) error
	ExistsForReview(userID int, reviewID, channel string) (bool, error)
	ExistsForCustomerEventSince(userID int, customerID, event string, since time.Time) (bool, error)
	ListDue(now time.Time, limit int) ([]*model.AutomationJob, error)
	ListPending(limit int) ([]*model.AutomationJob, error)
	GetByID(id int) (*model.AutomationJob, error)
	MarkCompleted(id int, at time.Time) error
	MarkFailed(id int, errorMessage string) error
}

type JobRepository struct {
	DB *sql.DB
}

const jobColumns = `id, user_id, review_id, customer_id, template_id, channel,
	recipient_name, recipient_email, recipient_phone, scheduled_for, status,
	trigger_type, trigger_event, wait_days, error_message, created_at, completed_at`

// Insert creates a pending job. A job missing its channel's required
// recipient field must never reach the table, so validation runs before
// any SQL.
func (r *JobRepository) Insert(job *model.AutomationJob) error {
	switch job.Channel {
	case model.ChannelEmail:
		if job.RecipientEmail == "" {
			return appErrors.NewValidation("email job for review %s has no recipient email", job.ReviewID)
		}
	case model.ChannelSMS:
		if job.RecipientPhone == "" {
			return appErrors.NewValidation("sms job for review %s has no recipient phone", job.ReviewID)
		}
	default:
		return appErrors.NewValidation("unknown channel %q", job.Channel)
	}

	job.Status = model.JobStatusPending
	job.CreatedAt = time.Now()

	query := `
        INSERT INTO automation_jobs
            (user_id, review_id, customer_id, template_id, channel,
             recipient_name, recipient_email, recipient_phone, scheduled_for,
             status, trigger_type, trigger_event, wait_days, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING id
    `
	err := r.DB.QueryRow(query,
		job.UserID, job.ReviewID, job.CustomerID, job.TemplateID, job.Channel,
		job.RecipientName, job.RecipientEmail, job.RecipientPhone, job.ScheduledFor,
		job.Status, job.TriggerType, job.TriggerEvent, job.WaitDays, job.CreatedAt,
	).Scan(&job.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyScheduled
		}
		return err
	}
	return nil
}

// ExistsForReview blocks re-creation regardless of status: a completed
// job counts the same as a pending one.
func (r *JobRepository) ExistsForReview(userID int, reviewID, channel string) (bool, error) {
	query := `
        SELECT 1 FROM automation_jobs
        WHERE user_id=$1 AND review_id=$2 AND channel=$3
        LIMIT 1
    `
	var tmp int
	err := r.DB.QueryRow(query, userID, reviewID, channel).Scan(&tmp)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ExistsForCustomerEventSince is the recency check for new-customer
// events: rapid repeated triggers within the window are duplicates.
func (r *JobRepository) ExistsForCustomerEventSince(userID int, customerID, event string, since time.Time) (bool, error) {
	query := `
        SELECT 1 FROM automation_jobs
        WHERE user_id=$1 AND customer_id=$2 AND trigger_event=$3 AND created_at >= $4
        LIMIT 1
    `
	var tmp int
	err := r.DB.QueryRow(query, userID, customerID, event, since).Scan(&tmp)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *JobRepository) ListDue(now time.Time, limit int) ([]*model.AutomationJob, error) {
	query := `
        SELECT ` + jobColumns + `
        FROM automation_jobs
        WHERE status='pending' AND scheduled_for <= $1
        ORDER BY scheduled_for ASC
        LIMIT $2
    `
	return r.queryJobs(query, now, limit)
}

func (r *JobRepository) ListPending(limit int) ([]*model.AutomationJob, error) {
	query := `
        SELECT ` + jobColumns + `
        FROM automation_jobs
        WHERE status='pending'
        ORDER BY scheduled_for ASC
        LIMIT $1
    `
	return r.queryJobs(query, limit)
}

func (r *JobRepository) GetByID(id int) (*model.AutomationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM automation_jobs WHERE id=$1`
	jobs, err := r.queryJobs(query, id)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	return jobs[0], nil
}

// MarkCompleted transitions a pending job to completed. A no-op when the
// job is already terminal, so a double dispatch cannot rewrite history.
func (r *JobRepository) MarkCompleted(id int, at time.Time) error {
	query := `
        UPDATE automation_jobs
        SET status='completed', completed_at=$1, error_message=''
        WHERE id=$2 AND status='pending'
    `
	_, err := r.DB.Exec(query, at, id)
	return err
}

// MarkFailed transitions a pending job to failed, capturing the error
// verbatim. Idempotent like MarkCompleted.
func (r *JobRepository) MarkFailed(id int, errorMessage string) error {
	query := `
        UPDATE automation_jobs
        SET status='failed', error_message=$1
        WHERE id=$2 AND status='pending'
    `
	_, err := r.DB.Exec(query, errorMessage, id)
	return err
}

func (r *JobRepository) queryJobs(query string, args ...interface{}) ([]*model.AutomationJob, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*model.AutomationJob{}
	for rows.Next() {
		j := &model.AutomationJob{}
		var recipientEmail, recipientPhone, errorMessage sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(
			&j.ID, &j.UserID, &j.ReviewID, &j.CustomerID, &j.TemplateID, &j.Channel,
			&j.RecipientName, &recipientEmail, &recipientPhone, &j.ScheduledFor, &j.Status,
			&j.TriggerType, &j.TriggerEvent, &j.WaitDays, &errorMessage, &j.CreatedAt, &completedAt,
		); err != nil {
			return nil, err
		}
		j.RecipientEmail = recipientEmail.String
		j.RecipientPhone = recipientPhone.String
		j.ErrorMessage = errorMessage.String
		if completedAt.Valid {
			t := completedAt.Time
			j.CompletedAt = &t
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

var _ JobRepositoryInterface = (*JobRepository)(nil)
