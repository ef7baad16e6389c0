package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeFireTimeImmediate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	got := ComputeFireTime(TriggerImmediate, 0, now)
	assert.Equal(t, now.Add(5*time.Minute), got)

	// wait days are ignored for immediate
	assert.Equal(t, got, ComputeFireTime(TriggerImmediate, 14, now))
}

func TestComputeFireTimeWaitDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, 3), ComputeFireTime(TriggerAfterPurchase, 3, now))
	assert.Equal(t, now.AddDate(0, 0, 10), ComputeFireTime(TriggerAfterInteraction, 10, now))
	assert.Equal(t, now, ComputeFireTime(TriggerAfterPurchase, 0, now))
}

func TestComputeFireTimeWeeklyIgnoresWaitDays(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	want := now.AddDate(0, 0, 7)

	for _, waitDays := range []int{0, 1, 14, 90} {
		assert.Equal(t, want, ComputeFireTime(TriggerWeekly, waitDays, now))
	}
}

func TestComputeFireTimeMonthlyOverflow(t *testing.T) {
	jan31 := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)
	got := ComputeFireTime(TriggerMonthly, 5, jan31)
	// Go normalizes Jan 31 + 1 month to Mar 3 (2025 is not a leap year).
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), got)
}

func TestComputeFireTimeUnknownTrigger(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, 4), ComputeFireTime(TriggerType("bogus"), 4, now))
	// floor of one day even when wait days is zero
	assert.Equal(t, now.AddDate(0, 0, 1), ComputeFireTime(TriggerOther, 0, now))
}

func TestClassifyRating(t *testing.T) {
	assert.Equal(t, EventPositiveReview, ClassifyRating(5))
	assert.Equal(t, EventPositiveReview, ClassifyRating(4))
	assert.Equal(t, EventNeutralReview, ClassifyRating(3))
	assert.Equal(t, EventNegativeReview, ClassifyRating(2))
	assert.Equal(t, EventNegativeReview, ClassifyRating(1))
}
