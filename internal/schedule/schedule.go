// internal/schedule/schedule.go
package schedule

import "time"

// TriggerType governs when a scheduled job should fire.
type TriggerType string

const (
	TriggerImmediate        TriggerType = "immediate"
	TriggerAfterPurchase    TriggerType = "after_purchase"
	TriggerAfterInteraction TriggerType = "after_interaction"
	TriggerWeekly           TriggerType = "weekly"
	TriggerMonthly          TriggerType = "monthly"
	TriggerOther            TriggerType = "other"
)

// TriggerEvent classifies the originating event for audit purposes.
type TriggerEvent string

const (
	EventPositiveReview TriggerEvent = "positive_review"
	EventNeutralReview  TriggerEvent = "neutral_review"
	EventNegativeReview TriggerEvent = "negative_review"
	EventNewCustomer    TriggerEvent = "new_customer"
)

// immediateBuffer keeps "immediate" jobs from racing the inserting
// transaction and from instantaneous double-sends.
const immediateBuffer = 5 * time.Minute

// ComputeFireTime maps a trigger configuration to the absolute time the
// job becomes due. Pure: the caller supplies now.
func ComputeFireTime(trigger TriggerType, waitDays int, now time.Time) time.Time {
	switch trigger {
	case TriggerImmediate:
		return now.Add(immediateBuffer)
	case TriggerAfterPurchase, TriggerAfterInteraction:
		return now.AddDate(0, 0, waitDays)
	case TriggerWeekly:
		return now.AddDate(0, 0, 7)
	case TriggerMonthly:
		// Jan 31 + 1 month normalizes per time.AddDate rules.
		return now.AddDate(0, 1, 0)
	default:
		if waitDays < 1 {
			waitDays = 1
		}
		return now.AddDate(0, 0, waitDays)
	}
}

// ClassifyRating buckets a star rating into a trigger event.
func ClassifyRating(rating int) TriggerEvent {
	switch {
	case rating >= 4:
		return EventPositiveReview
	case rating <= 2:
		return EventNegativeReview
	default:
		return EventNeutralReview
	}
}
