package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbook/clinic-server/internal/appointment"
	"github.com/medbook/clinic-server/internal/auth"
	"github.com/medbook/clinic-server/internal/config"
	"github.com/medbook/clinic-server/internal/db"
	"github.com/medbook/clinic-server/internal/user"
)

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	CancelRatio  float64
	ReadRatio    float64
	PatientLimit int
	DoctorLimit  int
	DayHorizon   int
	PostgresDSN  string
	JWTSecret    string
	ClinicOpen   string
	ClinicClose  string
	SlotMinutes  int
}

// SimPatient carries the profile id used in appointments plus a locally
// minted bearer token for the owning account.
type SimPatient struct {
	PatientID uuid.UUID
	Token     string
}

type DataPool struct {
	Patients []SimPatient
	Doctors  []uuid.UUID
	Slots    []string

	mu           sync.RWMutex
	appointments []bookedRef
}

type bookedRef struct {
	ID    uuid.UUID
	Owner int // index into Patients
}

func (dp *DataPool) AddAppointment(id uuid.UUID, owner int) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, bookedRef{ID: id, Owner: owner})
}

func (dp *DataPool) GetRandomAppointment(rng *rand.Rand) (bookedRef, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return bookedRef{}, false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Booking   OperationMetrics
	Cancel    OperationMetrics
	ReadByID  OperationMetrics
	ListMine  OperationMetrics
	Available OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	metrics Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d booking=%.2f cancel=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.BookingRatio, cfg.CancelRatio, cfg.ReadRatio)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}

	log.Printf("loaded: %d patients, %d doctors, %d slots per day",
		len(dataPool.Patients), len(dataPool.Doctors), len(dataPool.Slots))

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.5),
		CancelRatio:  getFloat("SIM_CANCEL_RATIO", 0.2),
		ReadRatio:    getFloat("SIM_READ_RATIO", 0.3),
		PatientLimit: getInt("SIM_PATIENT_LIMIT", 500),
		DoctorLimit:  getInt("SIM_DOCTOR_LIMIT", 20),
		DayHorizon:   getInt("SIM_DAY_HORIZON", 14),
		PostgresDSN:  baseCfg.PostgresDSN,
		JWTSecret:    baseCfg.JWTSecret,
		ClinicOpen:   baseCfg.ClinicOpen,
		ClinicClose:  baseCfg.ClinicClose,
		SlotMinutes:  baseCfg.SlotMinutes,
	}

	// Normalize ratios
	total := cfg.BookingRatio + cfg.CancelRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required (set in .env or environment)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	grid, err := appointment.NewGrid(cfg.ClinicOpen, cfg.ClinicClose, cfg.SlotMinutes)
	if err != nil {
		return nil, fmt.Errorf("clinic hours: %w", err)
	}
	dataPool.Slots = grid.Slots()

	// Tokens are minted locally with the server's secret so the
	// simulator skips the login round trip for every patient.
	rows, err := pool.Query(ctx, `
		SELECT p.id, p.user_id FROM patients p LIMIT $1
	`, cfg.PatientLimit)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var patientID, userID uuid.UUID
		if err := rows.Scan(&patientID, &userID); err != nil {
			return nil, err
		}
		token, err := auth.GenerateToken(&user.User{ID: userID, Role: user.RolePatient}, cfg.JWTSecret, time.Hour)
		if err != nil {
			return nil, fmt.Errorf("mint token: %w", err)
		}
		dataPool.Patients = append(dataPool.Patients, SimPatient{PatientID: patientID, Token: token})
	}

	rows, err = pool.Query(ctx, `
		SELECT id FROM doctors LIMIT $1
	`, cfg.DoctorLimit)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Doctors = append(dataPool.Doctors, id)
	}

	if len(dataPool.Patients) == 0 {
		return nil, fmt.Errorf("no patients loaded (run cmd/seed first)")
	}
	if len(dataPool.Doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded (run cmd/seed first)")
	}

	return dataPool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			if r < s.config.BookingRatio {
				s.doBooking(ctx, rng)
			} else if r < s.config.BookingRatio+s.config.CancelRatio {
				s.doCancel(ctx, rng)
			} else {
				switch rng.Intn(3) {
				case 0:
					s.doReadByID(ctx, rng)
				case 1:
					s.doListMine(ctx, rng)
				case 2:
					s.doAvailableSlots(ctx, rng)
				}
			}
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	ownerIdx := rng.Intn(len(s.pool.Patients))
	patient := s.pool.Patients[ownerIdx]
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	date := time.Now().AddDate(0, 0, 1+rng.Intn(s.config.DayHorizon)).Format("2006-01-02")
	slot := s.pool.Slots[rng.Intn(len(s.pool.Slots))]

	start := time.Now()

	reqBody := map[string]interface{}{
		"doctorId":        doctorID.String(),
		"appointmentDate": date,
		"timeSlot":        slot,
		"reasonForVisit":  "Load test visit",
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/api/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+patient.Token)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false

	if err == nil {
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusCreated:
			success = true
			var apptResp struct {
				ID uuid.UUID `json:"id"`
			}
			bodyBytes, _ := io.ReadAll(resp.Body)
			if len(bodyBytes) > 0 {
				json.Unmarshal(bodyBytes, &apptResp)
				if apptResp.ID != uuid.Nil {
					s.pool.AddAppointment(apptResp.ID, ownerIdx)
				}
			}
		case http.StatusBadRequest, http.StatusConflict:
			// Double-booked slot or slot lock held by another worker.
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) doCancel(ctx context.Context, rng *rand.Rand) {
	ref, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "DELETE",
		fmt.Sprintf("%s/api/appointments/%s", s.config.APIBaseURL, ref.ID.String()), nil)
	req.Header.Set("Authorization", "Bearer "+s.pool.Patients[ref.Owner].Token)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.Cancel.Record(latency, success, false)
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	ref, ok := s.pool.GetRandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/api/appointments/%s", s.config.APIBaseURL, ref.ID.String()), nil)
	req.Header.Set("Authorization", "Bearer "+s.pool.Patients[ref.Owner].Token)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ReadByID.Record(latency, success, false)
}

func (s *Simulator) doListMine(ctx context.Context, rng *rand.Rand) {
	patient := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "GET", s.config.APIBaseURL+"/api/appointments", nil)
	req.Header.Set("Authorization", "Bearer "+patient.Token)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.ListMine.Record(latency, success, false)
}

func (s *Simulator) doAvailableSlots(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	date := time.Now().AddDate(0, 0, 1+rng.Intn(s.config.DayHorizon)).Format("2006-01-02")

	start := time.Now()

	req, _ := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/api/appointments/doctor/%s/available-slots?date=%s",
			s.config.APIBaseURL, doctorID.String(), date), nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	if err == nil {
		defer resp.Body.Close()
		success = resp.StatusCode == http.StatusOK
	}

	s.metrics.Available.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Booking", &s.metrics.Booking)
	printOperationReport("Cancel", &s.metrics.Cancel)
	printOperationReport("Read by ID", &s.metrics.ReadByID)
	printOperationReport("List Mine", &s.metrics.ListMine)
	printOperationReport("Available Slots", &s.metrics.Available)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	errCount := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if errCount > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", errCount, float64(errCount)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
