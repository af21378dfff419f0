package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/medbook/clinic-server/internal/appointment"
	"github.com/medbook/clinic-server/internal/db"
)

// Every seeded account gets this password so local logins are easy.
const seedPassword = "password123"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}
	passwordHash := string(hash)

	if err := seedAdmin(context.Background(), pool, passwordHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	doctorIDs, err := seedDoctors(context.Background(), pool, passwordHash, 20)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}

	patientIDs, err := seedPatients(context.Background(), pool, passwordHash, 200)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	if err := seedAppointments(context.Background(), pool, doctorIDs, patientIDs, 300); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, passwordHash string) error {
	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, role, is_active, created_at, updated_at)
		VALUES ($1, 'Clinic Admin', 'admin@medbook.example', $2, $3, 'admin', true, now(), now())
		ON CONFLICT DO NOTHING
	`, uuid.New(), passwordHash, gofakeit.Phone())
	if err != nil {
		return err
	}
	log.Println("admin seeded (admin@medbook.example)")
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d doctors", count)

	specializations := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}
	qualifications := []string{"MBBS", "MBBS, MD", "MBBS, MS", "MD, DM"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		userID := uuid.New()
		doctorID := uuid.New()
		name := gofakeit.Name()
		email := fmt.Sprintf("dr.%d.%s", i, strings.ToLower(gofakeit.Username())) + "@medbook.example"

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, name, email, password_hash, phone, role, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'doctor', true, now(), now())
		`, userID, name, email, passwordHash, gofakeit.Phone())
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO doctors (id, user_id, specialization, qualification, experience_years, consultation_fee, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, doctorID, userID,
			specializations[gofakeit.Number(0, len(specializations)-1)],
			qualifications[gofakeit.Number(0, len(qualifications)-1)],
			gofakeit.Number(1, 30),
			gofakeit.Number(50, 400),
		)
		if err != nil {
			return nil, err
		}

		ids = append(ids, doctorID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, passwordHash string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d patients", count)

	bloodGroups := []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
	genders := []string{"male", "female", "other"}

	const batchSize = 100
	var ids []uuid.UUID

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			userID := uuid.New()
			patientID := uuid.New()
			email := fmt.Sprintf("patient.%d.%s", i, strings.ToLower(gofakeit.Username())) + "@medbook.example"

			_, err := tx.Exec(ctx, `
				INSERT INTO users (id, name, email, password_hash, phone, role, is_active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, 'patient', true, now(), now())
			`, userID, gofakeit.Name(), email, passwordHash, gofakeit.Phone())
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}

			dob := gofakeit.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2010, 12, 31, 0, 0, 0, 0, time.UTC),
			).Format("2006-01-02")

			_, err = tx.Exec(ctx, `
				INSERT INTO patients (id, user_id, date_of_birth, gender, blood_group, address, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			`, patientID, userID, dob,
				genders[gofakeit.Number(0, len(genders)-1)],
				bloodGroups[gofakeit.Number(0, len(bloodGroups)-1)],
				gofakeit.Address().Address,
			)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}

			ids = append(ids, patientID)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, doctorIDs, patientIDs []uuid.UUID, count int) error {
	log.Printf("seeding up to %d appointments", count)

	grid, err := appointment.NewGrid("09:00", "17:00", 30)
	if err != nil {
		return err
	}
	slots := grid.Slots()

	reasons := []string{
		"Routine checkup",
		"Follow-up visit",
		"Persistent headache",
		"Back pain",
		"Skin rash",
		"Annual physical",
		"Blood pressure review",
	}
	symptomPool := []string{"fever", "cough", "fatigue", "nausea", "dizziness", "joint pain"}

	created := 0
	for i := 0; i < count; i++ {
		doctorID := doctorIDs[gofakeit.Number(0, len(doctorIDs)-1)]
		patientID := patientIDs[gofakeit.Number(0, len(patientIDs)-1)]
		date := appointment.DateOnly(time.Now().AddDate(0, 0, gofakeit.Number(1, 14)))
		slot := slots[gofakeit.Number(0, len(slots)-1)]

		var symptoms []string
		for _, s := range symptomPool {
			if gofakeit.Bool() {
				symptoms = append(symptoms, s)
			}
		}

		// The partial unique index rejects collisions; skip and move on.
		tag, err := pool.Exec(ctx, `
			INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, time_slot, status,
			                          reason_for_visit, symptoms, reminder_sent, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 'scheduled', $6, $7, false, now(), now())
			ON CONFLICT DO NOTHING
		`, uuid.New(), patientID, doctorID, date, slot,
			reasons[gofakeit.Number(0, len(reasons)-1)], symptoms)
		if err != nil {
			return err
		}
		created += int(tag.RowsAffected())
	}

	log.Printf("appointments seeded: %d", created)
	return nil
}
