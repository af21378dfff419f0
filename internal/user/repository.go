package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
)

// Repository contains all DB interactions needed by the identity service.
type Repository interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	CreatePatientProfile(ctx context.Context, p *PatientProfile) (*PatientProfile, error)
	CreateDoctorProfile(ctx context.Context, d *DoctorProfile) (*DoctorProfile, error)

	GetPatientProfileByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error)
	GetDoctorProfileByUserID(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error)

	// Directory
	ListDoctors(ctx context.Context) ([]DoctorListing, error)
	GetDoctorListing(ctx context.Context, doctorID uuid.UUID) (*DoctorListing, error)
	ListPatients(ctx context.Context) ([]PatientListing, error)
}
