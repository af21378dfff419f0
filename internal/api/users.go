package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medbook/clinic-server/internal/auth"
	"github.com/medbook/clinic-server/internal/user"
)

func registerHandler(svc *user.Service, jwtSecret string, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		result, err := svc.Register(r.Context(), user.RegisterInput{
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
			Phone:           req.Phone,
			Role:            user.Role(req.Role),
			DateOfBirth:     req.DateOfBirth,
			Gender:          req.Gender,
			BloodGroup:      req.BloodGroup,
			Address:         req.Address,
			Specialization:  req.Specialization,
			Qualification:   req.Qualification,
			ExperienceYears: req.Experience,
			ConsultationFee: req.ConsultationFee,
		})
		if err != nil {
			handleUserError(w, err)
			return
		}

		token, err := auth.GenerateToken(result.User, jwtSecret, tokenTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{
			Token:   token,
			User:    result.User,
			Patient: result.Patient,
			Doctor:  result.Doctor,
		})
	}
}

func loginHandler(svc *user.Service, jwtSecret string, tokenTTL time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleUserError(w, err)
			return
		}

		token, err := auth.GenerateToken(u, jwtSecret, tokenTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: u})
	}
}

func meHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		result, err := svc.Profile(r.Context(), ident.UserID)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{
			User:    result.User,
			Patient: result.Patient,
			Doctor:  result.Doctor,
		})
	}
}

func listDoctorsHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.Doctors(r.Context())
		if err != nil {
			handleUserError(w, err)
			return
		}
		if doctors == nil {
			doctors = []user.DoctorListing{}
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func getDoctorHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "id must be a valid UUID")
			return
		}

		doctor, err := svc.Doctor(r.Context(), id)
		if err != nil {
			handleUserError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, doctor)
	}
}

func listPatientsHandler(svc *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := svc.Patients(r.Context())
		if err != nil {
			handleUserError(w, err)
			return
		}
		if patients == nil {
			patients = []user.PatientListing{}
		}
		writeJSON(w, http.StatusOK, patients)
	}
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "email_taken", err.Error())
	case errors.Is(err, user.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrDoctorNotFound),
		errors.Is(err, user.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
