package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/medbook/clinic-server/internal/appointment"
	"github.com/medbook/clinic-server/internal/config"
	"github.com/medbook/clinic-server/internal/db"
	"github.com/medbook/clinic-server/internal/notify"
	redisclient "github.com/medbook/clinic-server/internal/redis"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("reminder-worker starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running reminder worker in env=%s interval=%s", cfg.Env, cfg.ReminderInterval)

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
	}

	repo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	notifier := notify.NewAppointmentNotifier(sender)
	svc := appointment.NewService(repo, locker, grid, notifier)

	// Run once at startup
	runOnce(rootCtx, svc)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			log.Println("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, svc)
		}
	}
}

func runOnce(ctx context.Context, svc *appointment.Service) {
	runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()
	if err := svc.SendDueReminders(runCtx, time.Now()); err != nil {
		log.Printf("reminder run error: %v", err)
		return
	}
	log.Printf("reminder run complete in %s", time.Since(start))
}
