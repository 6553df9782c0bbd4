package entities

import "time"

// MaxReviewCommentLength is the soft cap shown by the review form.
const MaxReviewCommentLength = 500

// Review is a patient's rating of an appointment's doctor.
type Review struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointment_id"`
	DoctorID      int       `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name"`
	PatientName   string    `json:"patient_name"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	Rating        int       `json:"rating"` // 1-5
	Comment       string    `json:"comment"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReviewRequest is the review form payload.
type ReviewRequest struct {
	AppointmentID int64  `json:"appointment_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// ReviewSummary aggregates the review list the way the reviews screen shows it.
type ReviewSummary struct {
	Total          int             `json:"total"`
	Average        float64         `json:"average"`
	Distribution   []RatingBucket  `json:"distribution"`
	DoctorAverages map[int]float64 `json:"doctor_averages"`
}

// RatingBucket is one bar of the star distribution.
type RatingBucket struct {
	Stars      int     `json:"stars"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
