package notify

import (
	"context"
	"fmt"

	"github.com/medbook/clinic-server/internal/appointment"
)

// AppointmentNotifier renders and sends the appointment emails. It
// implements appointment.Notifier.
type AppointmentNotifier struct {
	sender EmailSender
}

func NewAppointmentNotifier(sender EmailSender) *AppointmentNotifier {
	if sender == nil {
		sender = LogSender{}
	}
	return &AppointmentNotifier{sender: sender}
}

func (n *AppointmentNotifier) AppointmentBooked(ctx context.Context, d *appointment.Detail) error {
	if d.Patient == nil || d.Doctor == nil {
		return fmt.Errorf("appointment %s is not hydrated", d.ID)
	}

	date := d.Date.Format("Monday, January 2, 2006")
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment has been confirmed.\n\n"+
			"Doctor: Dr. %s\nSpecialization: %s\nDate: %s\nTime: %s\n\nThank you!",
		d.Patient.Name, d.Doctor.Name, d.Doctor.Specialization, date, d.TimeSlot,
	)
	html := fmt.Sprintf(
		"<h2>Appointment Confirmed</h2>"+
			"<p>Hello <strong>%s</strong>,</p>"+
			"<p>Your appointment has been confirmed.</p>"+
			"<h3>Details:</h3>"+
			"<p><strong>Doctor:</strong> Dr. %s</p>"+
			"<p><strong>Specialization:</strong> %s</p>"+
			"<p><strong>Date:</strong> %s</p>"+
			"<p><strong>Time:</strong> %s</p>"+
			"<br/><p>Thank you!</p>",
		d.Patient.Name, d.Doctor.Name, d.Doctor.Specialization, date, d.TimeSlot,
	)

	return n.sender.Send(ctx, EmailMessage{
		To:      d.Patient.Email,
		ToName:  d.Patient.Name,
		Subject: "Appointment Confirmation",
		Body:    body,
		HTML:    html,
	})
}

func (n *AppointmentNotifier) AppointmentReminder(ctx context.Context, d *appointment.Detail) error {
	if d.Patient == nil || d.Doctor == nil {
		return fmt.Errorf("appointment %s is not hydrated", d.ID)
	}

	date := d.Date.Format("Monday, January 2, 2006")
	body := fmt.Sprintf(
		"Hello %s,\n\nThis is a reminder for your appointment scheduled tomorrow.\n\n"+
			"Doctor: Dr. %s\nDate: %s\nTime: %s\n\nPlease arrive 10-15 minutes early.",
		d.Patient.Name, d.Doctor.Name, date, d.TimeSlot,
	)
	html := fmt.Sprintf(
		"<h2>Appointment Reminder</h2>"+
			"<p>Hello <strong>%s</strong>,</p>"+
			"<p>This is a reminder for your appointment scheduled tomorrow.</p>"+
			"<h3>Details:</h3>"+
			"<p><strong>Doctor:</strong> Dr. %s</p>"+
			"<p><strong>Date:</strong> %s</p>"+
			"<p><strong>Time:</strong> %s</p>"+
			"<br/><p>Please arrive 10-15 minutes early.</p>",
		d.Patient.Name, d.Doctor.Name, date, d.TimeSlot,
	)

	return n.sender.Send(ctx, EmailMessage{
		To:      d.Patient.Email,
		ToName:  d.Patient.Name,
		Subject: "Appointment Reminder",
		Body:    body,
		HTML:    html,
	})
}
