package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medbook/clinic-server/internal/appointment"
	"github.com/medbook/clinic-server/internal/auth"
)

const dateLayout = "2006-01-02"

func bookAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorId must be a valid UUID")
			return
		}

		date, err := time.Parse(dateLayout, req.AppointmentDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "appointmentDate must be YYYY-MM-DD")
			return
		}

		detail, err := svc.Book(r.Context(), ident.UserID, appointment.BookInput{
			DoctorID:       doctorID,
			Date:           date,
			TimeSlot:       req.TimeSlot,
			ReasonForVisit: req.ReasonForVisit,
			Symptoms:       req.Symptoms,
		})
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, detail)
	}
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		var opts appointment.ListOptions
		if s := r.URL.Query().Get("status"); s != "" {
			opts.Status = appointment.Status(s)
		}
		if ds := r.URL.Query().Get("date"); ds != "" {
			date, err := time.Parse(dateLayout, ds)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
				return
			}
			opts.Date = date
		}

		list, err := svc.List(r.Context(), actorFrom(ident), opts)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func adminListAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListAll(r.Context())
		if err != nil {
			handleAppointmentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		detail, err := svc.Get(r.Context(), actorFrom(ident), id)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, detail)
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var in appointment.UpdateInput
		if req.Status != nil {
			status := appointment.Status(*req.Status)
			in.Status = &status
		}
		in.Notes = req.Notes
		in.TimeSlot = req.TimeSlot
		if req.AppointmentDate != nil {
			date, err := time.Parse(dateLayout, *req.AppointmentDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_date", "appointmentDate must be YYYY-MM-DD")
				return
			}
			in.Date = &date
		}

		detail, err := svc.Update(r.Context(), actorFrom(ident), id, in)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, detail)
	}
}

func cancelAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := auth.IdentityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		if err := svc.Cancel(r.Context(), actorFrom(ident), id); err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CancelResponse{
			Success: true,
			Message: "Appointment cancelled successfully",
		})
	}
}

func availableSlotsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "doctorID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorID must be a valid UUID")
			return
		}

		ds := r.URL.Query().Get("date")
		if ds == "" {
			writeError(w, http.StatusBadRequest, "missing_date", "date query parameter is required")
			return
		}
		date, err := time.Parse(dateLayout, ds)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		availability, err := svc.AvailableSlots(r.Context(), doctorID, date)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, availability)
	}
}

func patientAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patientID, err := uuid.Parse(chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patientID must be a valid UUID")
			return
		}

		status := appointment.Status(r.URL.Query().Get("status"))

		list, err := svc.ListForPatient(r.Context(), patientID, status)
		if err != nil {
			handleAppointmentError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func actorFrom(ident *auth.Identity) appointment.Actor {
	return appointment.Actor{UserID: ident.UserID, Role: ident.Role}
}

func handleAppointmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusBadRequest, "slot_already_booked", "this time slot is already booked")
	case errors.Is(err, appointment.ErrSlotBusy):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	case errors.Is(err, appointment.ErrTerminalState):
		writeError(w, http.StatusConflict, "appointment_terminal", err.Error())
	case errors.Is(err, appointment.ErrNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_profile_not_found", err.Error())
	case errors.Is(err, appointment.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, appointment.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
