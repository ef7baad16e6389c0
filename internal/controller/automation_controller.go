// internal/controller/automation_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reviewloop/reviewloop-backend/internal/service"
)

type AutomationController struct {
	Scheduler  *service.SchedulerService
	Dispatcher *service.DispatcherService
}

// ScheduleForReview runs the trigger evaluator and duplicate guard for
// one review and reports the jobs created. Per-channel skips are normal
// outcomes, so this is a 200 even when nothing was scheduled.
func (c *AutomationController) ScheduleForReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "id")
	if reviewID == "" {
		writeError(w, http.StatusBadRequest, "missing review id")
		return
	}

	result, err := c.Scheduler.ScheduleForReview(reviewID)
	if err != nil {
		writeJSON(w, map[string]interface{}{
			"jobs_scheduled": 0,
			"scheduled_jobs": []interface{}{},
			"error":          err.Error(),
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"jobs_scheduled": result.JobsScheduled,
		"scheduled_jobs": result.ScheduledJobs,
	})
}

// ScheduleForCustomer is the new-customer event path.
func (c *AutomationController) ScheduleForCustomer(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer id")
		return
	}

	result, err := c.Scheduler.ScheduleForCustomerEvent(UserID(r), customerID)
	if err != nil {
		writeJSON(w, map[string]interface{}{
			"jobs_scheduled": 0,
			"scheduled_jobs": []interface{}{},
			"error":          err.Error(),
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"jobs_scheduled": result.JobsScheduled,
		"scheduled_jobs": result.ScheduledJobs,
	})
}

// ProcessPending runs one dispatcher batch. test_mode renders and
// validates without touching the transports or job statuses.
func (c *AutomationController) ProcessPending(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TestMode bool `json:"test_mode"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}
	}

	summary, err := c.Dispatcher.ProcessPending(body.TestMode)
	if err != nil {
		writeJSON(w, map[string]interface{}{
			"processed_jobs": 0,
			"error":          err.Error(),
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"processed_jobs":  summary.ProcessedJobs,
		"successful_jobs": summary.SuccessfulJobs,
		"failed_jobs":     summary.FailedJobs,
		"test_mode":       summary.TestMode,
		"results":         summary.Results,
	})
}

// ListPending is the read-only queue inspection endpoint.
func (c *AutomationController) ListPending(w http.ResponseWriter, r *http.Request) {
	jobs, err := c.Dispatcher.ListPending()
	if err != nil {
		writeJSON(w, map[string]interface{}{
			"jobs":  []interface{}{},
			"error": err.Error(),
		})
		return
	}
	writeJSON(w, map[string]interface{}{"jobs": jobs})
}
