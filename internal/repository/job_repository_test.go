package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/reviewloop/reviewloop-backend/internal/errors"
	"github.com/reviewloop/reviewloop-backend/internal/model"
)

// Recipient validation must short-circuit before any SQL runs: these
// tests use a nil DB handle on purpose, so reaching the database would
// panic.
func TestInsertRejectsEmailJobWithoutRecipient(t *testing.T) {
	repo := &JobRepository{}

	err := repo.Insert(&model.AutomationJob{
		UserID:       1,
		ReviewID:     "rev-1",
		Channel:      model.ChannelEmail,
		ScheduledFor: time.Now(),
	})

	var ve *appErrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestInsertRejectsSMSJobWithoutPhone(t *testing.T) {
	repo := &JobRepository{}

	err := repo.Insert(&model.AutomationJob{
		UserID:         1,
		ReviewID:       "rev-1",
		Channel:        model.ChannelSMS,
		RecipientEmail: "has-email-but-no-phone@example.com",
		ScheduledFor:   time.Now(),
	})

	var ve *appErrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestInsertRejectsUnknownChannel(t *testing.T) {
	repo := &JobRepository{}

	err := repo.Insert(&model.AutomationJob{
		UserID:         1,
		Channel:        "carrier_pigeon",
		RecipientEmail: "a@example.com",
	})

	var ve *appErrors.ValidationError
	assert.ErrorAs(t, err, &ve)
}
