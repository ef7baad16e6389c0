// internal/service/dispatcher_service.go
package service

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	appErrors "github.com/reviewloop/reviewloop-backend/internal/errors"
	"github.com/reviewloop/reviewloop-backend/internal/metrics"
	"github.com/reviewloop/reviewloop-backend/internal/model"
	"github.com/reviewloop/reviewloop-backend/internal/render"
	"github.com/reviewloop/reviewloop-backend/internal/repository"
	"github.com/reviewloop/reviewloop-backend/internal/sender"
)

// batchSize caps work per dispatch cycle; pendingLimit caps the
// read-only inspection endpoint.
const (
	batchSize    = 50
	pendingLimit = 100
)

// DispatcherService polls due jobs and executes sends. Senders are
// injected so tests and test-mode runs never touch the network.
type DispatcherService struct {
	Jobs      repository.JobRepositoryInterface
	Templates repository.TemplateRepositoryInterface
	Users     repository.UserRepositoryInterface
	Email     sender.EmailSender
	SMS       sender.SMSSender
	Now       func() time.Time
}

func (s *DispatcherService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// JobResult is the per-job outcome inside a batch summary.
type JobResult struct {
	JobID     int    `json:"job_id"`
	Channel   string `json:"channel"`
	Status    string `json:"status"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Summary reports one dispatch batch. Failure is data here: individual
// job errors never surface as an error from ProcessPending.
type Summary struct {
	ProcessedJobs  int         `json:"processed_jobs"`
	SuccessfulJobs int         `json:"successful_jobs"`
	FailedJobs     int         `json:"failed_jobs"`
	TestMode       bool        `json:"test_mode"`
	Results        []JobResult `json:"results"`
}

// ProcessPending runs one dispatch batch: up to batchSize due jobs in
// scheduled_for order, sequentially. In test mode the rendering and
// eligibility path is identical but the transport call is skipped and no
// status is written, so a dry run can be repeated safely.
func (s *DispatcherService) ProcessPending(testMode bool) (*Summary, error) {
	due, err := s.Jobs.ListDue(s.now(), batchSize)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TestMode: testMode, Results: []JobResult{}}
	for _, job := range due {
		res := s.processJob(job, testMode)
		summary.ProcessedJobs++
		if res.Status == model.JobStatusCompleted {
			summary.SuccessfulJobs++
		} else {
			summary.FailedJobs++
		}
		summary.Results = append(summary.Results, res)
	}

	if summary.ProcessedJobs > 0 {
		log.Info().
			Int("processed", summary.ProcessedJobs).
			Int("successful", summary.SuccessfulJobs).
			Int("failed", summary.FailedJobs).
			Bool("test_mode", testMode).
			Msg("dispatch batch done")
	}
	return summary, nil
}

// processJob is the per-job error boundary: every failure becomes a
// failed-status write and a result entry, never a returned error.
func (s *DispatcherService) processJob(job *model.AutomationJob, testMode bool) JobResult {
	res := JobResult{JobID: job.ID, Channel: job.Channel}

	messageID, err := s.deliver(job, testMode, &res)
	if err != nil {
		res.Status = model.JobStatusFailed
		res.Error = err.Error()
		if !testMode {
			if dbErr := s.Jobs.MarkFailed(job.ID, err.Error()); dbErr != nil {
				log.Error().Err(dbErr).Int("job_id", job.ID).Msg("failed to mark job failed")
			}
		}
		metrics.JobsDispatched.WithLabelValues(job.Channel, model.JobStatusFailed).Inc()
		return res
	}

	res.Status = model.JobStatusCompleted
	res.MessageID = messageID
	if !testMode {
		if dbErr := s.Jobs.MarkCompleted(job.ID, s.now()); dbErr != nil {
			log.Error().Err(dbErr).Int("job_id", job.ID).Msg("failed to mark job completed")
		}
	}
	metrics.JobsDispatched.WithLabelValues(job.Channel, model.JobStatusCompleted).Inc()
	return res
}

func (s *DispatcherService) deliver(job *model.AutomationJob, testMode bool, res *JobResult) (string, error) {
	tmpl, err := s.Templates.GetByID(job.TemplateID)
	if err != nil {
		return "", err
	}
	if tmpl == nil || tmpl.Channel != job.Channel {
		return "", appErrors.NewLookup("template", strconv.Itoa(job.TemplateID))
	}

	user, err := s.Users.GetByID(job.UserID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", appErrors.NewLookup("user", strconv.Itoa(job.UserID))
	}

	vars := render.Vars{
		CustomerName: job.RecipientName,
		CompanyName:  user.CompanyName,
		ReviewURL:    render.TrackableURL(user.ReviewURL, job.CustomerID),
	}
	body := render.Render(tmpl.Body, vars)

	switch job.Channel {
	case model.ChannelEmail:
		if job.RecipientEmail == "" {
			return "", appErrors.NewValidation("job %d has no recipient email", job.ID)
		}
		subject := render.Render(tmpl.Subject, vars)
		from := tmpl.FromEmail
		if from == "" {
			from = user.Email
		}
		res.Recipient = job.RecipientEmail
		res.Subject = subject
		res.Body = body
		if testMode {
			return "", nil
		}
		return s.Email.Send(from, job.RecipientEmail, subject, body, "")

	case model.ChannelSMS:
		if job.RecipientPhone == "" {
			return "", appErrors.NewValidation("job %d has no recipient phone", job.ID)
		}
		from := tmpl.SenderName
		if from == "" {
			from = user.CompanyName
		}
		res.Recipient = job.RecipientPhone
		res.Body = body
		if testMode {
			return "", nil
		}
		return s.SMS.Send(from, job.RecipientPhone, body)

	default:
		return "", appErrors.NewValidation("job %d has unknown channel %q", job.ID, job.Channel)
	}
}

// ListPending exposes the queue for inspection, capped and ordered by
// due time.
func (s *DispatcherService) ListPending() ([]*model.AutomationJob, error) {
	return s.Jobs.ListPending(pendingLimit)
}
