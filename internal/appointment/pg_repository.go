package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// Querier is the subset of pgxpool.Pool the repository uses. Tests
// substitute a pgxmock pool.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type PgRepository struct {
	db Querier
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

// NewPgRepositoryWithQuerier allows injecting mocks for tests.
func NewPgRepositoryWithQuerier(q Querier) *PgRepository {
	return &PgRepository{db: q}
}

const appointmentColumns = `id, patient_id, doctor_id, appointment_date, time_slot, status,
	reason_for_visit, symptoms, notes, reminder_sent, created_at, updated_at`

const detailSelect = `
	SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.time_slot, a.status,
	       a.reason_for_visit, a.symptoms, a.notes, a.reminder_sent, a.created_at, a.updated_at,
	       p.user_id, pu.name, pu.email, pu.phone,
	       d.user_id, du.name, du.email, du.phone, d.specialization
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN users pu ON pu.id = p.user_id
	JOIN doctors d ON d.id = a.doctor_id
	JOIN users du ON du.id = d.user_id`

// Helpers

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var notes *string

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.Date,
		&a.TimeSlot,
		&a.Status,
		&a.ReasonForVisit,
		&a.Symptoms,
		&notes,
		&a.ReminderSent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if notes != nil {
		a.Notes = *notes
	}
	if a.Symptoms == nil {
		a.Symptoms = []string{}
	}
	return &a, nil
}

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	var notes *string
	patient := &PatientSummary{}
	doctor := &DoctorSummary{}

	err := row.Scan(
		&d.ID,
		&d.PatientID,
		&d.DoctorID,
		&d.Date,
		&d.TimeSlot,
		&d.Status,
		&d.ReasonForVisit,
		&d.Symptoms,
		&notes,
		&d.ReminderSent,
		&d.CreatedAt,
		&d.UpdatedAt,
		&patient.UserID,
		&patient.Name,
		&patient.Email,
		&patient.Phone,
		&doctor.UserID,
		&doctor.Name,
		&doctor.Email,
		&doctor.Phone,
		&doctor.Specialization,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if notes != nil {
		d.Notes = *notes
	}
	if d.Symptoms == nil {
		d.Symptoms = []string{}
	}
	patient.ID = d.PatientID
	doctor.ID = d.DoctorID
	d.Patient = patient
	d.Doctor = doctor
	return &d, nil
}

func mapSlotConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrSlotTaken
	}
	return err
}

// Interface methods

func (r *PgRepository) Create(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a.PatientID == uuid.Nil || a.DoctorID == uuid.Nil || a.Date.IsZero() ||
		a.TimeSlot == "" || a.ReasonForVisit == "" {
		return nil, ErrValidation
	}

	id := uuid.New()
	status := a.Status
	if status == "" {
		status = StatusScheduled
	}
	symptoms := a.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, time_slot, status,
		                          reason_for_visit, symptoms, notes, reminder_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, a.PatientID, a.DoctorID, a.Date, a.TimeSlot, status, a.ReasonForVisit, symptoms, nullableString(a.Notes))

	created, err := scanAppointment(row)
	if err != nil {
		return nil, mapSlotConflict(err)
	}
	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	row := r.db.QueryRow(ctx, detailSelect+`
		WHERE a.id = $1
	`, id)
	return scanDetail(row)
}

func (r *PgRepository) List(ctx context.Context, f ListFilter) ([]Detail, error) {
	var clauses []string
	var args []any

	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.PatientID != uuid.Nil {
		add("a.patient_id = $%d", f.PatientID)
	}
	if f.DoctorID != uuid.Nil {
		add("a.doctor_id = $%d", f.DoctorID)
	}
	if f.Status != "" {
		add("a.status = $%d", f.Status)
	}
	if !f.Date.IsZero() {
		add("a.appointment_date = $%d", f.Date)
	}

	query := detailSelect
	if len(clauses) > 0 {
		query += "\n\tWHERE " + strings.Join(clauses, " AND ")
	}
	if f.NewestFirst {
		query += "\n\tORDER BY a.appointment_date DESC, a.time_slot ASC"
	} else {
		query += "\n\tORDER BY a.appointment_date ASC, a.time_slot ASC"
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func (r *PgRepository) Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (*Appointment, error) {
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	args := []any{id}

	set := func(clause string, arg any) {
		args = append(args, arg)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if patch.Date != nil {
		set("appointment_date = $%d", *patch.Date)
	}
	if patch.TimeSlot != nil {
		set("time_slot = $%d", *patch.TimeSlot)
	}
	if patch.Status != nil {
		set("status = $%d", *patch.Status)
	}
	if patch.Notes != nil {
		set("notes = $%d", *patch.Notes)
	}
	if patch.ReminderSent != nil {
		set("reminder_sent = $%d", *patch.ReminderSent)
	}
	sets = append(sets, "updated_at = now()")

	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET `+strings.Join(sets, ",\n\t\t    ")+`
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, args...)

	updated, err := scanAppointment(row)
	if err != nil {
		return nil, mapSlotConflict(err)
	}
	return updated, nil
}

func (r *PgRepository) FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND time_slot = $3
		  AND status <> 'cancelled'
		LIMIT 1
	`, doctorID, date, timeSlot)
	return scanAppointment(row)
}

func (r *PgRepository) BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT time_slot
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND status <> 'cancelled'
		ORDER BY time_slot ASC
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}

	return slots, rows.Err()
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*PatientSummary, error) {
	row := r.db.QueryRow(ctx, `
		SELECT p.id, p.user_id, u.name, u.email, u.phone
		FROM patients p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`, id)
	return scanPatientSummary(row)
}

func (r *PgRepository) GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*PatientSummary, error) {
	row := r.db.QueryRow(ctx, `
		SELECT p.id, p.user_id, u.name, u.email, u.phone
		FROM patients p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`, userID)
	return scanPatientSummary(row)
}

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*DoctorSummary, error) {
	row := r.db.QueryRow(ctx, `
		SELECT d.id, d.user_id, u.name, u.email, u.phone, d.specialization
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`, id)
	return scanDoctorSummary(row)
}

func (r *PgRepository) GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*DoctorSummary, error) {
	row := r.db.QueryRow(ctx, `
		SELECT d.id, d.user_id, u.name, u.email, u.phone, d.specialization
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.user_id = $1
	`, userID)
	return scanDoctorSummary(row)
}

func (r *PgRepository) FindDueReminders(ctx context.Context, date time.Time) ([]Detail, error) {
	rows, err := r.db.Query(ctx, detailSelect+`
		WHERE a.appointment_date = $1
		  AND a.status = 'scheduled'
		  AND NOT a.reminder_sent
		ORDER BY a.time_slot ASC
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Detail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}

	return result, rows.Err()
}

func scanPatientSummary(row pgx.Row) (*PatientSummary, error) {
	var p PatientSummary
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Email, &p.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanDoctorSummary(row pgx.Row) (*DoctorSummary, error) {
	var d DoctorSummary
	err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.Email, &d.Phone, &d.Specialization)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
