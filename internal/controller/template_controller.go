// internal/controller/template_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/reviewloop/reviewloop-backend/internal/model"
	"github.com/reviewloop/reviewloop-backend/internal/queue"
	"github.com/reviewloop/reviewloop-backend/internal/repository"
	"github.com/reviewloop/reviewloop-backend/internal/schedule"
)

type TemplateController struct {
	Templates repository.TemplateRepositoryInterface
	Queue     queue.Queue
}

func validChannel(channel string) bool {
	return channel == model.ChannelEmail || channel == model.ChannelSMS
}

func validTrigger(trigger string) bool {
	switch schedule.TriggerType(trigger) {
	case schedule.TriggerImmediate, schedule.TriggerAfterPurchase,
		schedule.TriggerAfterInteraction, schedule.TriggerWeekly,
		schedule.TriggerMonthly, schedule.TriggerOther:
		return true
	}
	return false
}

// Upsert saves the business's one template per channel and publishes a
// backfill event so recent reviews get a scheduling pass with the new
// content.
func (c *TemplateController) Upsert(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	if !validChannel(channel) {
		writeError(w, http.StatusBadRequest, "channel must be email or sms")
		return
	}

	var body struct {
		Subject         string `json:"subject"`
		Body            string `json:"body"`
		FromEmail       string `json:"from_email"`
		SenderName      string `json:"sender_name"`
		InitialTrigger  string `json:"initial_trigger"`
		InitialWaitDays int    `json:"initial_wait_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if body.Body == "" {
		writeError(w, http.StatusBadRequest, "template body is required")
		return
	}
	if !validTrigger(body.InitialTrigger) {
		writeError(w, http.StatusBadRequest, "unknown initial_trigger")
		return
	}
	if body.InitialWaitDays < 0 {
		writeError(w, http.StatusBadRequest, "initial_wait_days must be >= 0")
		return
	}

	tmpl := &model.Template{
		UserID:          UserID(r),
		Channel:         channel,
		Subject:         body.Subject,
		Body:            body.Body,
		FromEmail:       body.FromEmail,
		SenderName:      body.SenderName,
		InitialTrigger:  body.InitialTrigger,
		InitialWaitDays: body.InitialWaitDays,
	}
	if err := c.Templates.Upsert(tmpl); err != nil {
		writeJSON(w, map[string]interface{}{"error": err.Error()})
		return
	}

	if err := c.Queue.Publish(queue.TopicBackfill, queue.BackfillEvent{UserID: tmpl.UserID}); err != nil {
		// the template is saved either way; the backfill just won't run
		log.Warn().Err(err).Int("user_id", tmpl.UserID).Msg("failed to publish backfill event")
	}

	writeJSON(w, map[string]interface{}{"template": tmpl})
}

func (c *TemplateController) Get(w http.ResponseWriter, r *http.Request) {
	channel := chi.URLParam(r, "channel")
	if !validChannel(channel) {
		writeError(w, http.StatusBadRequest, "channel must be email or sms")
		return
	}

	tmpl, err := c.Templates.GetByUserChannel(UserID(r), channel)
	if err != nil {
		writeJSON(w, map[string]interface{}{"error": err.Error()})
		return
	}
	writeJSON(w, map[string]interface{}{"template": tmpl})
}
