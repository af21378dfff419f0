package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid registration input")
)

// RegisterResult bundles the created account with its role profile.
type RegisterResult struct {
	User    *User
	Patient *PatientProfile
	Doctor  *DoctorProfile
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account plus the role profile for patients and
// doctors. Admin accounts have no profile row.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" || in.Email == "" || in.Phone == "" {
		return nil, fmt.Errorf("%w: name, email and phone are required", ErrInvalidInput)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	}
	if !in.Role.Valid() || in.Role == RoleAdmin {
		return nil, fmt.Errorf("%w: role must be patient or doctor", ErrInvalidInput)
	}

	u := &User{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		Role:  in.Role,
	}
	if err := u.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{User: created}

	switch in.Role {
	case RolePatient:
		p, err := s.repo.CreatePatientProfile(ctx, &PatientProfile{
			UserID:      created.ID,
			DateOfBirth: in.DateOfBirth,
			Gender:      in.Gender,
			BloodGroup:  in.BloodGroup,
			Address:     in.Address,
		})
		if err != nil {
			return nil, fmt.Errorf("create patient profile: %w", err)
		}
		result.Patient = p
	case RoleDoctor:
		d, err := s.repo.CreateDoctorProfile(ctx, &DoctorProfile{
			UserID:          created.ID,
			Specialization:  in.Specialization,
			Qualification:   in.Qualification,
			ExperienceYears: in.ExperienceYears,
			ConsultationFee: in.ConsultationFee,
		})
		if err != nil {
			return nil, fmt.Errorf("create doctor profile: %w", err)
		}
		result.Doctor = d
	}

	return result, nil
}

// Login verifies credentials and returns the account. Lookup misses and
// password mismatches collapse into the same error so callers cannot
// probe for registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !u.IsActive || !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Profile returns the account with its role profile, if any.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*RegisterResult, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{User: u}

	switch u.Role {
	case RolePatient:
		p, err := s.repo.GetPatientProfileByUserID(ctx, u.ID)
		if err != nil && !errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		result.Patient = p
	case RoleDoctor:
		d, err := s.repo.GetDoctorProfileByUserID(ctx, u.ID)
		if err != nil && !errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		result.Doctor = d
	}

	return result, nil
}

// Doctors lists the public doctor directory.
func (s *Service) Doctors(ctx context.Context) ([]DoctorListing, error) {
	return s.repo.ListDoctors(ctx)
}

// Doctor returns one doctor directory entry.
func (s *Service) Doctor(ctx context.Context, doctorID uuid.UUID) (*DoctorListing, error) {
	return s.repo.GetDoctorListing(ctx, doctorID)
}

// Patients lists patients for clinic staff.
func (s *Service) Patients(ctx context.Context) ([]PatientListing, error) {
	return s.repo.ListPatients(ctx)
}
