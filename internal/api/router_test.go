package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/clinic-server/internal/appointment"
	"github.com/medbook/clinic-server/internal/user"
)

const testSecret = "test-secret"

// memStore backs both services with one in-memory dataset so handler
// tests exercise the real service and routing layers end to end.
type memStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*user.User
	patients     map[uuid.UUID]*user.PatientProfile // by user id
	doctors      map[uuid.UUID]*user.DoctorProfile  // by user id
	appointments map[uuid.UUID]*appointment.Appointment
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*user.User),
		patients:     make(map[uuid.UUID]*user.PatientProfile),
		doctors:      make(map[uuid.UUID]*user.DoctorProfile),
		appointments: make(map[uuid.UUID]*appointment.Appointment),
	}
}

// user.Repository

func (s *memStore) CreateUser(_ context.Context, u *user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, user.ErrEmailTaken
		}
	}
	cp := *u
	cp.ID = uuid.New()
	cp.IsActive = true
	s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrUserNotFound
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (s *memStore) CreatePatientProfile(_ context.Context, p *user.PatientProfile) (*user.PatientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.ID = uuid.New()
	s.patients[cp.UserID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) CreateDoctorProfile(_ context.Context, d *user.DoctorProfile) (*user.DoctorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	cp.ID = uuid.New()
	s.doctors[cp.UserID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) GetPatientProfileByUserID(_ context.Context, userID uuid.UUID) (*user.PatientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.patients[userID]; ok {
		return p, nil
	}
	return nil, user.ErrPatientNotFound
}

func (s *memStore) GetDoctorProfileByUserID(_ context.Context, userID uuid.UUID) (*user.DoctorProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.doctors[userID]; ok {
		return d, nil
	}
	return nil, user.ErrDoctorNotFound
}

func (s *memStore) ListDoctors(_ context.Context) ([]user.DoctorListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []user.DoctorListing
	for userID, d := range s.doctors {
		u := s.users[userID]
		out = append(out, user.DoctorListing{DoctorProfile: *d, Name: u.Name, Email: u.Email, Phone: u.Phone})
	}
	return out, nil
}

func (s *memStore) GetDoctorListing(_ context.Context, doctorID uuid.UUID) (*user.DoctorListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, d := range s.doctors {
		if d.ID == doctorID {
			u := s.users[userID]
			return &user.DoctorListing{DoctorProfile: *d, Name: u.Name, Email: u.Email, Phone: u.Phone}, nil
		}
	}
	return nil, user.ErrDoctorNotFound
}

func (s *memStore) ListPatients(_ context.Context) ([]user.PatientListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []user.PatientListing
	for userID, p := range s.patients {
		u := s.users[userID]
		out = append(out, user.PatientListing{PatientProfile: *p, Name: u.Name, Email: u.Email, Phone: u.Phone})
	}
	return out, nil
}

// appointment.Repository

func (s *memStore) Create(_ context.Context, a *appointment.Appointment) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.appointments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, appointment.ErrNotFound
}

func (s *memStore) GetDetail(ctx context.Context, id uuid.UUID) (*appointment.Detail, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &appointment.Detail{
		Appointment: *a,
		Patient:     s.patientSummaryByID(a.PatientID),
		Doctor:      s.doctorSummaryByID(a.DoctorID),
	}, nil
}

func (s *memStore) patientSummaryByID(id uuid.UUID) *appointment.PatientSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, p := range s.patients {
		if p.ID == id {
			u := s.users[userID]
			return &appointment.PatientSummary{ID: p.ID, UserID: userID, Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
	}
	return nil
}

func (s *memStore) doctorSummaryByID(id uuid.UUID) *appointment.DoctorSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, d := range s.doctors {
		if d.ID == id {
			u := s.users[userID]
			return &appointment.DoctorSummary{
				ID: d.ID, UserID: userID, Name: u.Name, Email: u.Email, Phone: u.Phone,
				Specialization: d.Specialization,
			}
		}
	}
	return nil
}

func (s *memStore) List(ctx context.Context, f appointment.ListFilter) ([]appointment.Detail, error) {
	s.mu.Lock()
	var ids []uuid.UUID
	for id, a := range s.appointments {
		if f.PatientID != uuid.Nil && a.PatientID != f.PatientID {
			continue
		}
		if f.DoctorID != uuid.Nil && a.DoctorID != f.DoctorID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if !f.Date.IsZero() && !a.Date.Equal(f.Date) {
			continue
		}
		ids = append(ids, id)
	}
	s.mu.Unlock()

	out := []appointment.Detail{}
	for _, id := range ids {
		d, err := s.GetDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.NewestFirst {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, patch appointment.UpdatePatch) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, appointment.ErrNotFound
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.TimeSlot != nil {
		a.TimeSlot = *patch.TimeSlot
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	if patch.ReminderSent != nil {
		a.ReminderSent = *patch.ReminderSent
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) FindActiveBySlot(_ context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (*appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.TimeSlot == timeSlot && a.Status != appointment.StatusCancelled {
			cp := *a
			return &cp, nil
		}
	}
	return nil, appointment.ErrNotFound
}

func (s *memStore) BookedSlots(_ context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []string{}
	for _, a := range s.appointments {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Status != appointment.StatusCancelled {
			out = append(out, a.TimeSlot)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *memStore) GetPatientByID(_ context.Context, id uuid.UUID) (*appointment.PatientSummary, error) {
	if p := s.patientSummaryByID(id); p != nil {
		return p, nil
	}
	return nil, appointment.ErrPatientNotFound
}

func (s *memStore) GetPatientByUserID(_ context.Context, userID uuid.UUID) (*appointment.PatientSummary, error) {
	s.mu.Lock()
	p, ok := s.patients[userID]
	s.mu.Unlock()
	if !ok {
		return nil, appointment.ErrPatientNotFound
	}
	return s.patientSummaryByID(p.ID), nil
}

func (s *memStore) GetDoctorByID(_ context.Context, id uuid.UUID) (*appointment.DoctorSummary, error) {
	if d := s.doctorSummaryByID(id); d != nil {
		return d, nil
	}
	return nil, appointment.ErrDoctorNotFound
}

func (s *memStore) GetDoctorByUserID(_ context.Context, userID uuid.UUID) (*appointment.DoctorSummary, error) {
	s.mu.Lock()
	d, ok := s.doctors[userID]
	s.mu.Unlock()
	if !ok {
		return nil, appointment.ErrDoctorNotFound
	}
	return s.doctorSummaryByID(d.ID), nil
}

func (s *memStore) FindDueReminders(ctx context.Context, date time.Time) ([]appointment.Detail, error) {
	return s.List(ctx, appointment.ListFilter{Status: appointment.StatusScheduled, Date: date})
}

// inlineLocker runs the booking critical section without Redis.
type inlineLocker struct{}

func (inlineLocker) WithSlotLock(ctx context.Context, _ uuid.UUID, _ time.Time, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := newMemStore()

	grid, err := appointment.NewGrid("09:00", "17:00", 30)
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}

	return NewRouter(RouterConfig{
		Appointments: appointment.NewService(store, inlineLocker{}, grid, nil),
		Users:        user.NewService(store),
		JWTSecret:    testSecret,
		TokenTTL:     time.Hour,
		Env:          "test",
		Version:      "test",
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func registerPatient(t *testing.T, handler http.Handler, email string) (token string, patientID uuid.UUID) {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:     "Alice Smith",
		Email:    email,
		Password: "password123",
		Phone:    "555-0100",
		Role:     "patient",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register patient: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	decodeJSON(t, rec, &resp)
	if resp.Token == "" || resp.Patient == nil {
		t.Fatalf("register patient: incomplete response %s", rec.Body.String())
	}
	return resp.Token, resp.Patient.ID
}

func registerDoctor(t *testing.T, handler http.Handler, email string) (token string, doctorID uuid.UUID) {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name:           "Bob Jones",
		Email:          email,
		Password:       "password123",
		Phone:          "555-0101",
		Role:           "doctor",
		Specialization: "Dermatology",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register doctor: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	decodeJSON(t, rec, &resp)
	if resp.Token == "" || resp.Doctor == nil {
		t.Fatalf("register doctor: incomplete response %s", rec.Body.String())
	}
	return resp.Token, resp.Doctor.ID
}

func bookSlot(t *testing.T, handler http.Handler, token string, doctorID uuid.UUID, date, slot string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, handler, http.MethodPost, "/api/appointments", token, BookAppointmentRequest{
		DoctorID:        doctorID.String(),
		AppointmentDate: date,
		TimeSlot:        slot,
		ReasonForVisit:  "Routine checkup",
	})
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestRegisterLoginMe(t *testing.T) {
	handler := newTestRouter(t)

	token, _ := registerPatient(t, handler, "alice@example.com")

	rec := doJSON(t, handler, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var me AuthResponse
	decodeJSON(t, rec, &me)
	if me.User == nil || me.User.Email != "alice@example.com" || me.Patient == nil {
		t.Errorf("unexpected me response: %s", rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me without token: expected 401, got %d", rec.Code)
	}
}

func TestBookingConflictAndRebook(t *testing.T) {
	handler := newTestRouter(t)

	aliceToken, _ := registerPatient(t, handler, "alice@example.com")
	carolToken, _ := registerPatient(t, handler, "carol@example.com")
	_, doctorID := registerDoctor(t, handler, "bob@example.com")

	date := futureDate()

	rec := bookSlot(t, handler, aliceToken, doctorID, date, "10:00")
	if rec.Code != http.StatusCreated {
		t.Fatalf("first booking: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var booked appointment.Detail
	decodeJSON(t, rec, &booked)
	if booked.Status != appointment.StatusScheduled {
		t.Errorf("expected scheduled, got %s", booked.Status)
	}
	if booked.Doctor == nil || booked.Doctor.Specialization != "Dermatology" {
		t.Errorf("booking response should include doctor details: %s", rec.Body.String())
	}

	// Same doctor, same date, same slot: rejected.
	rec = bookSlot(t, handler, carolToken, doctorID, date, "10:00")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("conflicting booking: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var conflictResp ErrorResponse
	decodeJSON(t, rec, &conflictResp)
	if conflictResp.Error != "slot_already_booked" {
		t.Errorf("expected slot_already_booked, got %q", conflictResp.Error)
	}

	// Cancelling frees the slot for a new booking.
	rec = doJSON(t, handler, http.MethodDelete, "/api/appointments/"+booked.ID.String(), aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var cancelResp CancelResponse
	decodeJSON(t, rec, &cancelResp)
	if !cancelResp.Success {
		t.Errorf("expected success cancel response, got %s", rec.Body.String())
	}

	rec = bookSlot(t, handler, carolToken, doctorID, date, "10:00")
	if rec.Code != http.StatusCreated {
		t.Fatalf("rebooking after cancel: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBookingValidationErrors(t *testing.T) {
	handler := newTestRouter(t)

	token, _ := registerPatient(t, handler, "alice@example.com")
	_, doctorID := registerDoctor(t, handler, "bob@example.com")

	rec := bookSlot(t, handler, token, doctorID, futureDate(), "10:17")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("off-grid slot: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/appointments", token, BookAppointmentRequest{
		DoctorID:        doctorID.String(),
		AppointmentDate: "09/10/2026",
		TimeSlot:        "10:00",
		ReasonForVisit:  "Routine checkup",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad date format: expected 400, got %d", rec.Code)
	}

	rec = bookSlot(t, handler, token, uuid.New(), futureDate(), "10:00")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown doctor: expected 404, got %d", rec.Code)
	}
}

func TestAvailableSlotsEndpoint(t *testing.T) {
	handler := newTestRouter(t)

	token, _ := registerPatient(t, handler, "alice@example.com")
	_, doctorID := registerDoctor(t, handler, "bob@example.com")

	date := futureDate()
	if rec := bookSlot(t, handler, token, doctorID, date, "09:00"); rec.Code != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d", rec.Code)
	}

	// No auth header: availability is public.
	path := fmt.Sprintf("/api/appointments/doctor/%s/available-slots?date=%s", doctorID, date)
	rec := doJSON(t, handler, http.MethodGet, path, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("available slots: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var av appointment.Availability
	decodeJSON(t, rec, &av)
	if len(av.BookedSlots) != 1 || av.BookedSlots[0] != "09:00" {
		t.Errorf("expected 09:00 booked, got %v", av.BookedSlots)
	}
	if len(av.AvailableSlots) != 15 {
		t.Errorf("expected 15 available slots, got %d", len(av.AvailableSlots))
	}

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/appointments/doctor/%s/available-slots", doctorID), "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing date: expected 400, got %d", rec.Code)
	}
}

func TestDoctorStatusUpdateFlow(t *testing.T) {
	handler := newTestRouter(t)

	patientToken, _ := registerPatient(t, handler, "alice@example.com")
	doctorToken, doctorID := registerDoctor(t, handler, "bob@example.com")

	rec := bookSlot(t, handler, patientToken, doctorID, futureDate(), "11:00")
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d", rec.Code)
	}
	var booked appointment.Detail
	decodeJSON(t, rec, &booked)

	completed := "completed"
	notes := "Prescribed rest"
	rec = doJSON(t, handler, http.MethodPut, "/api/appointments/"+booked.ID.String(), doctorToken, UpdateAppointmentRequest{
		Status: &completed,
		Notes:  &notes,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("doctor update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated appointment.Detail
	decodeJSON(t, rec, &updated)
	if updated.Status != appointment.StatusCompleted || updated.Notes != notes {
		t.Errorf("unexpected update result: %s", rec.Body.String())
	}

	// Completed appointments are frozen.
	noShow := "no-show"
	rec = doJSON(t, handler, http.MethodPut, "/api/appointments/"+booked.ID.String(), doctorToken, UpdateAppointmentRequest{
		Status: &noShow,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("update after completion: expected 409, got %d", rec.Code)
	}
}

func TestOwnershipAndRoleGates(t *testing.T) {
	handler := newTestRouter(t)

	aliceToken, _ := registerPatient(t, handler, "alice@example.com")
	carolToken, _ := registerPatient(t, handler, "carol@example.com")
	doctorToken, doctorID := registerDoctor(t, handler, "bob@example.com")

	rec := bookSlot(t, handler, aliceToken, doctorID, futureDate(), "14:00")
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d", rec.Code)
	}
	var booked appointment.Detail
	decodeJSON(t, rec, &booked)

	// Another patient cannot read or cancel it.
	rec = doJSON(t, handler, http.MethodGet, "/api/appointments/"+booked.ID.String(), carolToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign get: expected 403, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodDelete, "/api/appointments/"+booked.ID.String(), carolToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign cancel: expected 403, got %d", rec.Code)
	}

	// Doctors cannot book.
	rec = bookSlot(t, handler, doctorToken, doctorID, futureDate(), "15:00")
	if rec.Code != http.StatusForbidden {
		t.Errorf("doctor booking: expected 403, got %d", rec.Code)
	}

	// Patient listing is staff only.
	rec = doJSON(t, handler, http.MethodGet, "/api/patients", aliceToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient listing as patient: expected 403, got %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/api/patients", doctorToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("patient listing as doctor: expected 200, got %d", rec.Code)
	}

	// Anything under /api/appointments requires a token.
	rec = doJSON(t, handler, http.MethodGet, "/api/appointments", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list: expected 401, got %d", rec.Code)
	}
}

func TestListAppointmentsScopes(t *testing.T) {
	handler := newTestRouter(t)

	aliceToken, _ := registerPatient(t, handler, "alice@example.com")
	carolToken, _ := registerPatient(t, handler, "carol@example.com")
	doctorToken, doctorID := registerDoctor(t, handler, "bob@example.com")

	date := futureDate()
	if rec := bookSlot(t, handler, aliceToken, doctorID, date, "09:00"); rec.Code != http.StatusCreated {
		t.Fatalf("booking: %d", rec.Code)
	}
	if rec := bookSlot(t, handler, carolToken, doctorID, date, "09:30"); rec.Code != http.StatusCreated {
		t.Fatalf("booking: %d", rec.Code)
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/appointments", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("patient list: expected 200, got %d", rec.Code)
	}
	var list []appointment.Detail
	decodeJSON(t, rec, &list)
	if len(list) != 1 {
		t.Errorf("patient should see 1 appointment, got %d", len(list))
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/appointments", doctorToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("doctor list: expected 200, got %d", rec.Code)
	}
	decodeJSON(t, rec, &list)
	if len(list) != 2 {
		t.Errorf("doctor should see 2 appointments, got %d", len(list))
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/appointments?status=cancelled", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered list: expected 200, got %d", rec.Code)
	}
	decodeJSON(t, rec, &list)
	if len(list) != 0 {
		t.Errorf("expected no cancelled appointments, got %d", len(list))
	}
}

func TestDoctorDirectory(t *testing.T) {
	handler := newTestRouter(t)

	_, doctorID := registerDoctor(t, handler, "bob@example.com")

	rec := doJSON(t, handler, http.MethodGet, "/api/doctors", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("doctors: expected 200, got %d", rec.Code)
	}
	var doctors []user.DoctorListing
	decodeJSON(t, rec, &doctors)
	if len(doctors) != 1 || doctors[0].Name != "Bob Jones" {
		t.Errorf("unexpected directory: %s", rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/doctors/"+doctorID.String(), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("doctor by id: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/doctors/"+uuid.NewString(), "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown doctor: expected 404, got %d", rec.Code)
	}
}

func TestLiveness(t *testing.T) {
	handler := newTestRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	var resp LivenessResponse
	decodeJSON(t, rec, &resp)
	if resp.Status != "ok" {
		t.Errorf("expected ok status, got %q", resp.Status)
	}
}
