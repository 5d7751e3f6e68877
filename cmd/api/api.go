package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dermoagenda/docs" //this is required to generate swagger docs
	"dermoagenda/internal/auth"
	"dermoagenda/internal/mailer"
	"dermoagenda/internal/payments"
	"dermoagenda/internal/ratelimiter"
	"dermoagenda/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         store.Storage
	logger        *zap.SugaredLogger
	mailer        mailer.Client
	authenticator auth.Authenticator
	gateway       payments.PaymentGateway
	rateLimiter   ratelimiter.Limiter
	// loc is the clinic's wall clock; every schedule lookup and slot
	// computation happens in it.
	loc *time.Location
}

type config struct {
	addr            string
	env             string
	apiURL          string
	frontendURL     string
	tzOffsetMinutes int
	db              dbConfig
	mail            mailConfig
	auth            authConfig
	payments        paymentsConfig
	rateLimiter     ratelimiter.Config
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type mailConfig struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
	admin adminConfig
}

type basicConfig struct {
	user string
	pass string
}

type tokenConfig struct {
	secret        string
	refreshSecret string
	iss           string
}

type adminConfig struct {
	email        string
	passwordHash string
}

type paymentsConfig struct {
	accessToken     string
	successURL      string
	failureURL      string
	notificationURL string
	production      bool
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.With(app.BasicAuthMiddleware()).Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/swagger/doc.json", app.config.addr)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/public", func(r chi.Router) {
			r.Use(app.RateLimiterMiddleware)

			r.Get("/config/schedule", app.getScheduleHandler)
			r.Get("/availability", app.getAvailabilityHandler)
			r.Get("/services", app.listServicesHandler)
			r.Post("/bookings", app.createPublicBookingHandler)
			r.Post("/payments/bookings/{bookingID}/preference", app.createPaymentPreferenceHandler)
			r.Post("/payments/webhook", app.paymentWebhookHandler)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/auth/login", app.loginHandler)
			r.Post("/auth/refresh", app.refreshTokenHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)

				r.Get("/calendar", app.getCalendarHandler)

				r.Route("/blocks", func(r chi.Router) {
					r.Post("/", app.createBlockHandler)
					r.Patch("/{blockID}/cancel", app.cancelBlockHandler)
				})

				r.Route("/bookings", func(r chi.Router) {
					r.Post("/", app.createManualBookingHandler)
					r.Patch("/{bookingID}/reschedule", app.rescheduleBookingHandler)
					r.Patch("/{bookingID}/status", app.updateBookingStatusHandler)
					r.Patch("/{bookingID}/customer", app.updateBookingCustomerHandler)
					r.Get("/{bookingID}/history", app.getBookingHistoryHandler)
				})

				r.Put("/config/schedule", app.updateScheduleHandler)
			})
		})
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
