package appointment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/medbook/clinic-server/internal/redis"
	"github.com/medbook/clinic-server/internal/user"
)

var (
	ErrForbidden     = errors.New("not authorized for this appointment")
	ErrSlotBusy      = errors.New("slot is currently being booked, please retry")
	ErrTerminalState = errors.New("appointment is already completed or cancelled")
)

// Actor is the authenticated caller as the service sees it. The role
// profile id (patient or doctor row) is resolved here, not by the
// transport layer.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

// Notifier delivers appointment emails. Failures are logged by the
// service and never surfaced to the booking caller.
type Notifier interface {
	AppointmentBooked(ctx context.Context, d *Detail) error
	AppointmentReminder(ctx context.Context, d *Detail) error
}

type BookInput struct {
	DoctorID       uuid.UUID
	Date           time.Time
	TimeSlot       string
	ReasonForVisit string
	Symptoms       []string
}

// UpdateInput carries a PUT body. Which fields actually apply depends
// on the caller's role; the rest are ignored or rejected per the
// lifecycle rules.
type UpdateInput struct {
	Date     *time.Time
	TimeSlot *string
	Status   *Status
	Notes    *string
}

type ListOptions struct {
	Status Status
	Date   time.Time
}

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	grid     *Grid
	notifier Notifier
}

func NewService(repo Repository, locker redisclient.Locker, grid *Grid, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		repo:     repo,
		locker:   locker,
		grid:     grid,
		notifier: notifier,
	}
}

// Grid exposes the clinic slot grid, mainly for handlers and tests.
func (s *Service) Grid() *Grid {
	return s.grid
}

// Book reserves a slot for the calling patient. A per-slot distributed
// lock serializes concurrent attempts for the same slot; the store's
// uniqueness constraint on non-cancelled (doctor, date, slot) backstops
// instances that lose the lock race anyway.
func (s *Service) Book(ctx context.Context, patientUserID uuid.UUID, in BookInput) (*Detail, error) {
	if in.ReasonForVisit == "" {
		return nil, fmt.Errorf("%w: reason for visit is required", ErrValidation)
	}
	if !s.grid.Contains(in.TimeSlot) {
		return nil, fmt.Errorf("%w: %q is not a bookable time slot", ErrValidation, in.TimeSlot)
	}

	patient, err := s.repo.GetPatientByUserID(ctx, patientUserID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient profile: %w", err)
	}

	doctor, err := s.repo.GetDoctorByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	date := DateOnly(in.Date)
	var created *Appointment

	err = s.locker.WithSlotLock(ctx, doctor.ID, date, in.TimeSlot, func(lockCtx context.Context) error {
		existing, err := s.repo.FindActiveBySlot(lockCtx, doctor.ID, date, in.TimeSlot)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("check slot: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		appt, err := s.repo.Create(lockCtx, &Appointment{
			PatientID:      patient.ID,
			DoctorID:       doctor.ID,
			Date:           date,
			TimeSlot:       in.TimeSlot,
			Status:         StatusScheduled,
			ReasonForVisit: in.ReasonForVisit,
			Symptoms:       in.Symptoms,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	detail, err := s.repo.GetDetail(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("load created appointment: %w", err)
	}

	// Confirmation email is best effort. The booking stands either way.
	if err := s.notifier.AppointmentBooked(ctx, detail); err != nil {
		log.Printf("appointment %s booked but confirmation email failed: %v", detail.ID, err)
	}

	return detail, nil
}

// List returns the caller's appointments: patients and doctors see
// their own, admins see everything. Status and single-date filters
// narrow the result further.
func (s *Service) List(ctx context.Context, actor Actor, opts ListOptions) ([]Detail, error) {
	filter := ListFilter{Status: opts.Status}
	if !opts.Date.IsZero() {
		filter.Date = DateOnly(opts.Date)
	}

	switch actor.Role {
	case user.RoleAdmin:
		// no scoping
	case user.RolePatient:
		patient, err := s.repo.GetPatientByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.PatientID = patient.ID
	case user.RoleDoctor:
		doctor, err := s.repo.GetDoctorByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		filter.DoctorID = doctor.ID
	default:
		return nil, ErrForbidden
	}

	return s.repo.List(ctx, filter)
}

// ListAll is the admin overview, newest appointment date first.
func (s *Service) ListAll(ctx context.Context) ([]Detail, error) {
	return s.repo.List(ctx, ListFilter{NewestFirst: true})
}

// ListForPatient returns one patient's appointments with an optional
// status filter.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID, status Status) ([]Detail, error) {
	return s.repo.List(ctx, ListFilter{PatientID: patientID, Status: status})
}

// Get returns one appointment if the caller is the owning patient, the
// assigned doctor, or an admin.
func (s *Service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*Detail, error) {
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actor, &detail.Appointment, false); err != nil {
		return nil, err
	}
	return detail, nil
}

// Update applies a role-gated partial update. Assigned doctors may set
// status and notes; owning patients may reschedule while the
// appointment is still scheduled, and may cancel. Patient status values
// other than cancelled are silently dropped.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, in UpdateInput) (*Detail, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var patch UpdatePatch

	switch actor.Role {
	case user.RoleDoctor:
		doctor, err := s.repo.GetDoctorByUserID(ctx, actor.UserID)
		if err != nil || doctor.ID != appt.DoctorID {
			return nil, ErrForbidden
		}
		if in.Status != nil {
			if !in.Status.Valid() {
				return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
			}
			if appt.Status.Terminal() {
				return nil, ErrTerminalState
			}
			patch.Status = in.Status
		}
		if in.Notes != nil {
			patch.Notes = in.Notes
		}
		// Date and slot fields from doctors are ignored, not errors.

	case user.RolePatient:
		patient, err := s.repo.GetPatientByUserID(ctx, actor.UserID)
		if err != nil || patient.ID != appt.PatientID {
			return nil, ErrForbidden
		}
		if in.Date != nil || in.TimeSlot != nil {
			if appt.Status != StatusScheduled {
				return nil, ErrTerminalState
			}
			if in.TimeSlot != nil {
				if !s.grid.Contains(*in.TimeSlot) {
					return nil, fmt.Errorf("%w: %q is not a bookable time slot", ErrValidation, *in.TimeSlot)
				}
				patch.TimeSlot = in.TimeSlot
			}
			if in.Date != nil {
				d := DateOnly(*in.Date)
				patch.Date = &d
			}
		}
		if in.Status != nil && *in.Status == StatusCancelled {
			cancelled := StatusCancelled
			patch.Status = &cancelled
		}

	default:
		return nil, ErrForbidden
	}

	if patch.Empty() {
		return s.repo.GetDetail(ctx, id)
	}

	if _, err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.repo.GetDetail(ctx, id)
}

// Cancel is the dedicated cancellation path, open to the owning patient
// and admins. It flips status unconditionally; the row is never
// deleted, so the slot frees up while the record stays retrievable.
func (s *Service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) error {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, actor, appt, true); err != nil {
		return err
	}

	cancelled := StatusCancelled
	_, err = s.repo.Update(ctx, id, UpdatePatch{Status: &cancelled})
	return err
}

// AvailableSlots computes the bookable grid for a doctor on a date.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) (*Availability, error) {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return nil, err
	}

	booked, err := s.repo.BookedSlots(ctx, doctorID, DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("load booked slots: %w", err)
	}

	availability := s.grid.Availability(booked)
	return &availability, nil
}

// SendDueReminders emails every scheduled appointment happening the day
// after now that has not been reminded yet, marking each one sent.
// Intended to be called periodically by the reminder worker.
func (s *Service) SendDueReminders(ctx context.Context, now time.Time) error {
	tomorrow := DateOnly(now.AddDate(0, 0, 1))

	due, err := s.repo.FindDueReminders(ctx, tomorrow)
	if err != nil {
		return fmt.Errorf("find due reminders: %w", err)
	}

	for i := range due {
		d := &due[i]
		if err := s.notifier.AppointmentReminder(ctx, d); err != nil {
			log.Printf("reminder email for appointment %s failed: %v", d.ID, err)
			continue
		}

		sent := true
		if _, err := s.repo.Update(ctx, d.ID, UpdatePatch{ReminderSent: &sent}); err != nil {
			log.Printf("failed to mark reminder sent for appointment %s: %v", d.ID, err)
		}
	}

	return nil
}

// authorize enforces the ownership rule: owning patient, assigned
// doctor, or admin. When cancelOnly is set the assigned doctor is not
// enough; doctors cancel through the status update path instead.
func (s *Service) authorize(ctx context.Context, actor Actor, appt *Appointment, cancelOnly bool) error {
	switch actor.Role {
	case user.RoleAdmin:
		return nil
	case user.RolePatient:
		patient, err := s.repo.GetPatientByUserID(ctx, actor.UserID)
		if err == nil && patient.ID == appt.PatientID {
			return nil
		}
	case user.RoleDoctor:
		if cancelOnly {
			break
		}
		doctor, err := s.repo.GetDoctorByUserID(ctx, actor.UserID)
		if err == nil && doctor.ID == appt.DoctorID {
			return nil
		}
	}
	return ErrForbidden
}

// DateOnly truncates a timestamp to its calendar day in UTC, the
// granularity the appointment_date column stores.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type noopNotifier struct{}

func (noopNotifier) AppointmentBooked(context.Context, *Detail) error   { return nil }
func (noopNotifier) AppointmentReminder(context.Context, *Detail) error { return nil }
