package api

import (
	"github.com/medbook/clinic-server/internal/user"
)

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Gender          string `json:"gender,omitempty"`
	BloodGroup      string `json:"bloodGroup,omitempty"`
	Address         string `json:"address,omitempty"`
	Specialization  string `json:"specialization,omitempty"`
	Qualification   string `json:"qualification,omitempty"`
	Experience      int    `json:"experience,omitempty"`
	ConsultationFee int    `json:"consultationFee,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string               `json:"token"`
	User    *user.User           `json:"user"`
	Patient *user.PatientProfile `json:"patientInfo,omitempty"`
	Doctor  *user.DoctorProfile  `json:"doctorInfo,omitempty"`
}

type BookAppointmentRequest struct {
	DoctorID        string   `json:"doctorId"`
	AppointmentDate string   `json:"appointmentDate"` // YYYY-MM-DD
	TimeSlot        string   `json:"timeSlot"`
	ReasonForVisit  string   `json:"reasonForVisit"`
	Symptoms        []string `json:"symptoms,omitempty"`
}

// UpdateAppointmentRequest is the shared PUT body. Doctors may set
// status and notes; patients may set date, slot, and a cancelled
// status. Fields outside the caller's allowance are ignored or
// rejected by the service.
type UpdateAppointmentRequest struct {
	Status          *string `json:"status,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	AppointmentDate *string `json:"appointmentDate,omitempty"` // YYYY-MM-DD
	TimeSlot        *string `json:"timeSlot,omitempty"`
}

type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
