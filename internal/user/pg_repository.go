package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanUser(row pgx.Row) (*User, error) {
	var u User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Phone,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func scanPatientProfile(row pgx.Row) (*PatientProfile, error) {
	var p PatientProfile

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.DateOfBirth,
		&p.Gender,
		&p.BloodGroup,
		&p.Address,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanDoctorProfile(row pgx.Row) (*DoctorProfile, error) {
	var d DoctorProfile

	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Specialization,
		&d.Qualification,
		&d.ExperienceYears,
		&d.ConsultationFee,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	return &d, nil
}

// Interface methods

func (r *PgRepository) CreateUser(ctx context.Context, u *User) (*User, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		RETURNING id, name, email, password_hash, phone, role, is_active, created_at, updated_at
	`, id, u.Name, u.Email, u.PasswordHash, u.Phone, u.Role)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *PgRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, phone, role, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, phone, role, is_active, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	return scanUser(row)
}

func (r *PgRepository) CreatePatientProfile(ctx context.Context, p *PatientProfile) (*PatientProfile, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, user_id, date_of_birth, gender, blood_group, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, user_id, date_of_birth, gender, blood_group, address, created_at, updated_at
	`, id, p.UserID, p.DateOfBirth, p.Gender, p.BloodGroup, p.Address)

	return scanPatientProfile(row)
}

func (r *PgRepository) CreateDoctorProfile(ctx context.Context, d *DoctorProfile) (*DoctorProfile, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (id, user_id, specialization, qualification, experience_years, consultation_fee, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id, user_id, specialization, qualification, experience_years, consultation_fee, created_at, updated_at
	`, id, d.UserID, d.Specialization, d.Qualification, d.ExperienceYears, d.ConsultationFee)

	return scanDoctorProfile(row)
}

func (r *PgRepository) GetPatientProfileByUserID(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, date_of_birth, gender, blood_group, address, created_at, updated_at
		FROM patients
		WHERE user_id = $1
	`, userID)
	return scanPatientProfile(row)
}

func (r *PgRepository) GetDoctorProfileByUserID(ctx context.Context, userID uuid.UUID) (*DoctorProfile, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, specialization, qualification, experience_years, consultation_fee, created_at, updated_at
		FROM doctors
		WHERE user_id = $1
	`, userID)
	return scanDoctorProfile(row)
}

func (r *PgRepository) ListDoctors(ctx context.Context) ([]DoctorListing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.user_id, d.specialization, d.qualification, d.experience_years, d.consultation_fee,
		       d.created_at, d.updated_at, u.name, u.email, u.phone
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE u.is_active
		ORDER BY u.name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DoctorListing
	for rows.Next() {
		var l DoctorListing
		err := rows.Scan(
			&l.ID, &l.UserID, &l.Specialization, &l.Qualification, &l.ExperienceYears, &l.ConsultationFee,
			&l.CreatedAt, &l.UpdatedAt, &l.Name, &l.Email, &l.Phone,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetDoctorListing(ctx context.Context, doctorID uuid.UUID) (*DoctorListing, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT d.id, d.user_id, d.specialization, d.qualification, d.experience_years, d.consultation_fee,
		       d.created_at, d.updated_at, u.name, u.email, u.phone
		FROM doctors d
		JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`, doctorID)

	var l DoctorListing
	err := row.Scan(
		&l.ID, &l.UserID, &l.Specialization, &l.Qualification, &l.ExperienceYears, &l.ConsultationFee,
		&l.CreatedAt, &l.UpdatedAt, &l.Name, &l.Email, &l.Phone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *PgRepository) ListPatients(ctx context.Context) ([]PatientListing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.user_id, p.date_of_birth, p.gender, p.blood_group, p.address,
		       p.created_at, p.updated_at, u.name, u.email, u.phone
		FROM patients p
		JOIN users u ON u.id = p.user_id
		WHERE u.is_active
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PatientListing
	for rows.Next() {
		var l PatientListing
		err := rows.Scan(
			&l.ID, &l.UserID, &l.DateOfBirth, &l.Gender, &l.BloodGroup, &l.Address,
			&l.CreatedAt, &l.UpdatedAt, &l.Name, &l.Email, &l.Phone,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, l)
	}

	return result, rows.Err()
}
