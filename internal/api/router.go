package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medbook/clinic-server/internal/appointment"
	"github.com/medbook/clinic-server/internal/auth"
	"github.com/medbook/clinic-server/internal/user"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Users        *user.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	JWTSecret    string
	TokenTTL     time.Duration
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	authed := auth.Middleware(cfg.JWTSecret)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", registerHandler(cfg.Users, cfg.JWTSecret, cfg.TokenTTL))
			r.Post("/login", loginHandler(cfg.Users, cfg.JWTSecret, cfg.TokenTTL))
			r.With(authed).Get("/me", meHandler(cfg.Users))
		})

		r.Get("/doctors", listDoctorsHandler(cfg.Users))
		r.Get("/doctors/{id}", getDoctorHandler(cfg.Users))

		r.With(authed, auth.RequireRoles(user.RoleDoctor, user.RoleAdmin)).
			Get("/patients", listPatientsHandler(cfg.Users))

		r.Route("/appointments", func(r chi.Router) {
			// Availability is public: prospective patients browse slots
			// before they have an account.
			r.Get("/doctor/{doctorID}/available-slots", availableSlotsHandler(cfg.Appointments))

			r.Group(func(r chi.Router) {
				r.Use(authed)

				r.With(auth.RequireRoles(user.RolePatient)).
					Post("/", bookAppointmentHandler(cfg.Appointments))
				r.Get("/", listAppointmentsHandler(cfg.Appointments))
				r.With(auth.RequireRoles(user.RoleAdmin)).
					Get("/admin", adminListAppointmentsHandler(cfg.Appointments))
				r.Get("/patient/{patientID}", patientAppointmentsHandler(cfg.Appointments))
				r.Get("/{id}", getAppointmentHandler(cfg.Appointments))
				r.Put("/{id}", updateAppointmentHandler(cfg.Appointments))
				r.Delete("/{id}", cancelAppointmentHandler(cfg.Appointments))
			})
		})
	})

	return r
}
