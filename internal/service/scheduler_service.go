// internal/service/scheduler_service.go
package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	appErrors "github.com/reviewloop/reviewloop-backend/internal/errors"
	"github.com/reviewloop/reviewloop-backend/internal/metrics"
	"github.com/reviewloop/reviewloop-backend/internal/model"
	"github.com/reviewloop/reviewloop-backend/internal/repository"
	"github.com/reviewloop/reviewloop-backend/internal/schedule"
)

// customerEventWindow is the duplicate-guard recency window for
// new-customer events: repeated triggers inside it are treated as the
// same event.
const customerEventWindow = time.Hour

// backfillWindow bounds how far back a template save reschedules reviews.
const backfillWindow = 30 * 24 * time.Hour

// SchedulerService decides which follow-up jobs an event owes and
// persists them. Per-channel failures are logged and skipped; one
// channel's problem never blocks the other.
type SchedulerService struct {
	Jobs      repository.JobRepositoryInterface
	Templates repository.TemplateRepositoryInterface
	Reviews   repository.ReviewRepositoryInterface
	Customers repository.CustomerRepositoryInterface
	Now       func() time.Time
}

func (s *SchedulerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ScheduleResult reports what a scheduling call actually created.
type ScheduleResult struct {
	JobsScheduled int                    `json:"jobs_scheduled"`
	ScheduledJobs []*model.AutomationJob `json:"scheduled_jobs"`
}

// ScheduleForReview evaluates both channels for a submitted review and
// inserts a pending job per eligible channel.
func (s *SchedulerService) ScheduleForReview(reviewID string) (*ScheduleResult, error) {
	review, err := s.Reviews.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, appErrors.NewNotFound("review", reviewID)
	}
	return s.scheduleReview(review), nil
}

func (s *SchedulerService) scheduleReview(review *model.Review) *ScheduleResult {
	result := &ScheduleResult{ScheduledJobs: []*model.AutomationJob{}}
	triggerEvent := schedule.ClassifyRating(review.Rating)

	// Resolve the customer record once; anonymous reviews carry their
	// contact data inline and have no record to look up.
	var customer *model.Customer
	if !review.IsAnonymous() {
		c, err := s.Customers.GetByID(review.CustomerID, review.UserID)
		if err != nil {
			log.Warn().Err(err).Str("customer_id", review.CustomerID).Msg("customer lookup failed, using review contact fields")
		} else {
			customer = c
		}
	}

	for _, channel := range []string{model.ChannelEmail, model.ChannelSMS} {
		job, skip := s.buildReviewJob(review, customer, channel, triggerEvent)
		if skip {
			continue
		}
		if s.insertJob(job) {
			result.ScheduledJobs = append(result.ScheduledJobs, job)
			result.JobsScheduled++
		}
	}
	return result
}

// buildReviewJob runs the eligibility checks for one channel and returns
// the intended job, or skip=true when the channel owes nothing.
func (s *SchedulerService) buildReviewJob(review *model.Review, customer *model.Customer, channel string, triggerEvent schedule.TriggerEvent) (*model.AutomationJob, bool) {
	tmpl, err := s.Templates.GetByUserChannel(review.UserID, channel)
	if err != nil {
		log.Warn().Err(err).Int("user_id", review.UserID).Str("channel", channel).Msg("template lookup failed, skipping channel")
		return nil, true
	}
	if tmpl == nil {
		return nil, true
	}

	email := review.CustomerEmail
	name := review.CustomerName
	phone := ""
	if customer != nil {
		if customer.Email != "" {
			email = customer.Email
		}
		if customer.Name != "" {
			name = customer.Name
		}
		phone = customer.Phone
	}

	// No phone can ever resolve for an anonymous customer, so the SMS
	// channel is simply not eligible.
	if channel == model.ChannelSMS && phone == "" {
		log.Debug().Str("review_id", review.ID).Msg("no resolvable phone, sms skipped")
		return nil, true
	}

	exists, err := s.Jobs.ExistsForReview(review.UserID, review.ID, channel)
	if err != nil {
		log.Warn().Err(err).Str("review_id", review.ID).Str("channel", channel).Msg("duplicate check failed, skipping schedule attempt")
		return nil, true
	}
	if exists {
		metrics.DuplicatesSkipped.WithLabelValues(channel).Inc()
		return nil, true
	}

	now := s.now()
	return &model.AutomationJob{
		UserID:         review.UserID,
		ReviewID:       review.ID,
		CustomerID:     review.CustomerID,
		TemplateID:     tmpl.ID,
		Channel:        channel,
		RecipientName:  name,
		RecipientEmail: email,
		RecipientPhone: phone,
		ScheduledFor:   schedule.ComputeFireTime(schedule.TriggerType(tmpl.InitialTrigger), tmpl.InitialWaitDays, now),
		TriggerType:    tmpl.InitialTrigger,
		TriggerEvent:   string(triggerEvent),
		WaitDays:       tmpl.InitialWaitDays,
	}, false
}

// ScheduleForCustomerEvent handles the new-customer path. The duplicate
// guard here is recency-based: any job for (user, customer, event) in
// the last hour absorbs rapid repeated triggers.
func (s *SchedulerService) ScheduleForCustomerEvent(userID int, customerID string) (*ScheduleResult, error) {
	customer, err := s.Customers.GetByID(customerID, userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, appErrors.NewNotFound("customer", customerID)
	}

	result := &ScheduleResult{ScheduledJobs: []*model.AutomationJob{}}
	now := s.now()

	recent, err := s.Jobs.ExistsForCustomerEventSince(userID, customerID, string(schedule.EventNewCustomer), now.Add(-customerEventWindow))
	if err != nil {
		return nil, err
	}
	if recent {
		return result, nil
	}

	for _, channel := range []string{model.ChannelEmail, model.ChannelSMS} {
		tmpl, err := s.Templates.GetByUserChannel(userID, channel)
		if err != nil || tmpl == nil {
			continue
		}
		if channel == model.ChannelSMS && customer.Phone == "" {
			continue
		}
		job := &model.AutomationJob{
			UserID:         userID,
			CustomerID:     customerID,
			TemplateID:     tmpl.ID,
			Channel:        channel,
			RecipientName:  customer.Name,
			RecipientEmail: customer.Email,
			RecipientPhone: customer.Phone,
			ScheduledFor:   schedule.ComputeFireTime(schedule.TriggerType(tmpl.InitialTrigger), tmpl.InitialWaitDays, now),
			TriggerType:    tmpl.InitialTrigger,
			TriggerEvent:   string(schedule.EventNewCustomer),
			WaitDays:       tmpl.InitialWaitDays,
		}
		if s.insertJob(job) {
			result.ScheduledJobs = append(result.ScheduledJobs, job)
			result.JobsScheduled++
		}
	}
	return result, nil
}

// ScheduleForUser is a hook for user-wide backfill by event type. Not
// implemented; BackfillForUser covers the template-saved case.
func (s *SchedulerService) ScheduleForUser(userID int, eventType string) (*ScheduleResult, error) {
	log.Info().Int("user_id", userID).Str("event_type", eventType).Msg("ScheduleForUser called (stub)")
	return &ScheduleResult{ScheduledJobs: []*model.AutomationJob{}}, nil
}

// BackfillForUser reschedules the user's recent reviews after a template
// edit. The duplicate guard makes the pass idempotent: reviews that
// already have jobs schedule nothing new.
func (s *SchedulerService) BackfillForUser(userID int) (*ScheduleResult, error) {
	reviews, err := s.Reviews.ListRecentByUser(userID, s.now().Add(-backfillWindow))
	if err != nil {
		return nil, err
	}

	total := &ScheduleResult{ScheduledJobs: []*model.AutomationJob{}}
	for _, review := range reviews {
		r := s.scheduleReview(review)
		total.ScheduledJobs = append(total.ScheduledJobs, r.ScheduledJobs...)
		total.JobsScheduled += r.JobsScheduled
	}
	log.Info().Int("user_id", userID).Int("reviews", len(reviews)).Int("jobs_scheduled", total.JobsScheduled).Msg("backfill pass done")
	return total, nil
}

// insertJob persists one job, absorbing the two expected non-errors:
// the unique-constraint backstop firing and a validation miss.
func (s *SchedulerService) insertJob(job *model.AutomationJob) bool {
	err := s.Jobs.Insert(job)
	if err == nil {
		metrics.JobsScheduled.WithLabelValues(job.Channel).Inc()
		return true
	}

	if errors.Is(err, repository.ErrAlreadyScheduled) {
		metrics.DuplicatesSkipped.WithLabelValues(job.Channel).Inc()
		return false
	}
	var ve *appErrors.ValidationError
	if errors.As(err, &ve) {
		log.Debug().Str("review_id", job.ReviewID).Str("channel", job.Channel).Msg(ve.Reason)
		return false
	}
	log.Error().Err(err).Str("review_id", job.ReviewID).Str("channel", job.Channel).Msg("job insert failed")
	return false
}
