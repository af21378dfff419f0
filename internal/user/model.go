package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// User is an account that can authenticate. Role-specific data lives in
// the PatientProfile / DoctorProfile rows keyed by UserID.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SetPassword hashes a plaintext password onto the user.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword compares a plaintext password with the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

type PatientProfile struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	DateOfBirth string    `json:"dateOfBirth,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	BloodGroup  string    `json:"bloodGroup,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DoctorProfile struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	Specialization  string    `json:"specialization"`
	Qualification   string    `json:"qualification,omitempty"`
	ExperienceYears int       `json:"experienceYears"`
	ConsultationFee int       `json:"consultationFee"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DoctorListing is a doctor profile enriched with account display fields,
// the shape the public directory returns.
type DoctorListing struct {
	DoctorProfile
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PatientListing is the doctor/admin-facing view of a patient.
type PatientListing struct {
	PatientProfile
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// RegisterInput carries everything needed to create an account plus its
// role profile in one call.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     Role

	// Patient fields
	DateOfBirth string
	Gender      string
	BloodGroup  string
	Address     string

	// Doctor fields
	Specialization  string
	Qualification   string
	ExperienceYears int
	ConsultationFee int
}
