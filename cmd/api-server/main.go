package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/medbook/clinic-server/internal/api"
	"github.com/medbook/clinic-server/internal/appointment"
	"github.com/medbook/clinic-server/internal/config"
	"github.com/medbook/clinic-server/internal/db"
	"github.com/medbook/clinic-server/internal/notify"
	redisclient "github.com/medbook/clinic-server/internal/redis"
	"github.com/medbook/clinic-server/internal/user"
)

const version = "1.0.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	grid, err := appointment.NewGrid(cfg.ClinicOpen, cfg.ClinicClose, cfg.SlotMinutes)
	if err != nil {
		log.Fatalf("clinic schedule error: %v", err)
	}

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	var sender notify.EmailSender = notify.LogSender{}
	if cfg.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
		log.Println("sendgrid email sender configured")
	}

	apptRepo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	notifier := notify.NewAppointmentNotifier(sender)
	apptSvc := appointment.NewService(apptRepo, locker, grid, notifier)

	userRepo := user.NewPgRepository(pgPool)
	userSvc := user.NewService(userRepo)

	router := api.NewRouter(api.RouterConfig{
		Appointments: apptSvc,
		Users:        userSvc,
		PgPool:       pgPool,
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
