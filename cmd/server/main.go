// cmd/server/main.go
package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/reviewloop/reviewloop-backend/internal/auth"
	"github.com/reviewloop/reviewloop-backend/internal/controller"
	"github.com/reviewloop/reviewloop-backend/internal/db"
	"github.com/reviewloop/reviewloop-backend/internal/queue"
	"github.com/reviewloop/reviewloop-backend/internal/repository"
	"github.com/reviewloop/reviewloop-backend/internal/sender"
	"github.com/reviewloop/reviewloop-backend/internal/service"
)

const serviceName = "automation-api"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, relying on OS environment variables")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.With().Str("service", serviceName).Logger()

	conn, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer conn.Close()

	jobRepo := &repository.JobRepository{DB: conn}
	templateRepo := &repository.TemplateRepository{DB: conn}
	reviewRepo := &repository.ReviewRepository{DB: conn}
	customerRepo := &repository.CustomerRepository{DB: conn}
	userRepo := &repository.UserRepository{DB: conn}

	scheduler := &service.SchedulerService{
		Jobs:      jobRepo,
		Templates: templateRepo,
		Reviews:   reviewRepo,
		Customers: customerRepo,
	}
	dispatcher := &service.DispatcherService{
		Jobs:      jobRepo,
		Templates: templateRepo,
		Users:     userRepo,
		Email:     sender.NewSMTPEmailSender(sender.NewSMTPConfig()),
		SMS:       sender.NewGatewaySMSSender(sender.NewGatewayConfig()),
	}

	// With a broker configured the worker process consumes backfill
	// events; without one they are handled in-process.
	var q queue.Queue
	if url := os.Getenv("AMQP_URL"); url != "" {
		amqpQueue, err := queue.NewAMQPQueue(url)
		if err != nil {
			log.Fatal().Err(err).Msg("rabbitmq connection failed")
		}
		defer amqpQueue.Close()
		q = amqpQueue
	} else {
		mem := queue.NewInMemoryQueue()
		mem.Subscribe(queue.TopicBackfill, backfillHandler(scheduler))
		q = mem
	}

	middleware := &controller.AuthMiddleware{
		Sessions:    auth.NewRedisSessionResolver(),
		Entitlement: &auth.PlanEntitlementChecker{Users: userRepo},
	}
	automationController := &controller.AutomationController{
		Scheduler:  scheduler,
		Dispatcher: dispatcher,
	}
	templateController := &controller.TemplateController{
		Templates: templateRepo,
		Queue:     q,
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAutomation)
		r.Post("/automation/reviews/{id}/schedule", automationController.ScheduleForReview)
		r.Post("/automation/customers/{id}/schedule", automationController.ScheduleForCustomer)
		r.Post("/automation/process", automationController.ProcessPending)
		r.Get("/automation/jobs/pending", automationController.ListPending)
		r.Put("/templates/{channel}", templateController.Upsert)
		r.Get("/templates/{channel}", templateController.Get)
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Info().Str("addr", addr).Msg("server running")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func backfillHandler(scheduler *service.SchedulerService) func([]byte) error {
	return func(body []byte) error {
		var ev queue.BackfillEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			log.Warn().Err(err).Msg("malformed backfill event, dropping")
			return nil
		}
		_, err := scheduler.BackfillForUser(ev.UserID)
		return err
	}
}
