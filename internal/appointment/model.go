package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether the appointment can still be rescheduled or
// transitioned. Cancelled and completed appointments are frozen.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Appointment is one booked visit. PatientID and DoctorID reference the
// role profile rows, not the user accounts. Date carries the calendar
// day; the time of day lives in TimeSlot as an HH:MM token from the
// clinic grid.
type Appointment struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patientId"`
	DoctorID       uuid.UUID `json:"doctorId"`
	Date           time.Time `json:"appointmentDate"`
	TimeSlot       string    `json:"timeSlot"`
	Status         Status    `json:"status"`
	ReasonForVisit string    `json:"reasonForVisit"`
	Symptoms       []string  `json:"symptoms"`
	Notes          string    `json:"notes,omitempty"`
	ReminderSent   bool      `json:"reminderSent"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PatientSummary is the patient display data appointments are enriched
// with for responses and notifications.
type PatientSummary struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Phone  string    `json:"phone"`
}

// DoctorSummary is the doctor display data, including the fields the
// confirmation email shows.
type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialization string    `json:"specialization"`
}

// Detail is a fully hydrated appointment.
type Detail struct {
	Appointment
	Patient *PatientSummary `json:"patient,omitempty"`
	Doctor  *DoctorSummary  `json:"doctor,omitempty"`
}

// Availability is the bookable grid for one doctor on one date.
type Availability struct {
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
}
