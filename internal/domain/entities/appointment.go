package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

// AppointmentStatusBooked is the only modeled status; cancellation removes the record.
const AppointmentStatusBooked AppointmentStatus = "booked"

// AppointmentType distinguishes slot bookings from instant consultations.
type AppointmentType string

const (
	AppointmentTypeScheduled AppointmentType = "scheduled"
	AppointmentTypeInstant   AppointmentType = "instant"
)

// InstantSlot is the time label used by instant consultations.
const InstantSlot = "Now"

// DateLayout is the calendar-date format used for appointments and reviews.
const DateLayout = "2006-01-02"

// Appointment is a booking held in the session list.
type Appointment struct {
	ID           int64             `json:"id"`
	DoctorID     int               `json:"doctor_id"`
	DoctorName   string            `json:"doctor_name"`
	Specialty    string            `json:"specialty"`
	PatientName  string            `json:"patient_name"`
	PatientPhone string            `json:"patient_phone"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Type         AppointmentType   `json:"type"`
	Status       AppointmentStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// AppointmentRequest is the booking form payload. Time is ignored for
// instant consultations.
type AppointmentRequest struct {
	DoctorID     int    `json:"doctor_id"`
	DoctorName   string `json:"doctor_name"`
	Specialty    string `json:"specialty"`
	PatientName  string `json:"patient_name"`
	PatientPhone string `json:"patient_phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
}

// Occupies reports whether a occupies the given doctor's slot on date.
func (a Appointment) Occupies(doctorID int, date, slot string) bool {
	return a.DoctorID == doctorID && a.Date == date && a.Time == slot
}
