package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrPatientNotFound = errors.New("patient profile not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrValidation      = errors.New("missing required appointment fields")
	ErrSlotTaken       = errors.New("this time slot is already booked")
)

// ListFilter narrows List results. Zero values mean "any".
type ListFilter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    Status
	Date      time.Time // single-day equality filter

	// NewestFirst orders by appointment date descending, the admin
	// overview ordering. Default is date then slot ascending.
	NewestFirst bool
}

// UpdatePatch applies partial field changes. Nil fields are untouched.
type UpdatePatch struct {
	Date         *time.Time
	TimeSlot     *string
	Status       *Status
	Notes        *string
	ReminderSent *bool
}

func (p UpdatePatch) Empty() bool {
	return p.Date == nil && p.TimeSlot == nil && p.Status == nil && p.Notes == nil && p.ReminderSent == nil
}

// Repository contains all DB interactions needed by the lifecycle
// service, including the profile lookups used for authorization and
// response enrichment.
type Repository interface {
	Create(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	List(ctx context.Context, f ListFilter) ([]Detail, error)
	Update(ctx context.Context, id uuid.UUID, patch UpdatePatch) (*Appointment, error)

	// Conflict check and availability
	FindActiveBySlot(ctx context.Context, doctorID uuid.UUID, date time.Time, timeSlot string) (*Appointment, error)
	BookedSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]string, error)

	// Caller profile resolution
	GetPatientByID(ctx context.Context, id uuid.UUID) (*PatientSummary, error)
	GetPatientByUserID(ctx context.Context, userID uuid.UUID) (*PatientSummary, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*DoctorSummary, error)
	GetDoctorByUserID(ctx context.Context, userID uuid.UUID) (*DoctorSummary, error)

	// Reminder worker
	FindDueReminders(ctx context.Context, date time.Time) ([]Detail, error)
}
