//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Phone     *string   `json:"phone"      db:"phone"`
	Subject   string    `json:"subject"    db:"subject"`
	Message   string    `json:"message"    db:"message"`
	IsRead    bool      `json:"is_read"    db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Validate checks the public submission.
func (m *ContactMessage) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	if !strings.Contains(m.Email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(m.Message) == "" {
		return errors.New("message is required")
	}
	return nil
}

// BookingStatus is the workflow state of a booking request. Stored and
// displayed verbatim; no transition rules are enforced.
type BookingStatus string

const (
	BookingNew        BookingStatus = "NEW"
	BookingInProgress BookingStatus = "IN_PROGRESS"
	BookingConfirmed  BookingStatus = "CONFIRMED"
	BookingClosed     BookingStatus = "CLOSED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingNew, BookingInProgress, BookingConfirmed, BookingClosed:
		return true
	default:
		return false
	}
}

// BookingRequest is a service booking submitted from a service page.
type BookingRequest struct {
	ID                 string        `json:"id"                  db:"id"`
	ServiceID          *string       `json:"service_id"          db:"service_id"`
	Name               string        `json:"name"                db:"name"`
	Email              string        `json:"email"               db:"email"`
	Phone              *string       `json:"phone"               db:"phone"`
	PreferredDatetime  *time.Time    `json:"preferred_datetime"  db:"preferred_datetime"`
	Message            string        `json:"message"             db:"message"`
	Status             BookingStatus `json:"status"              db:"status"`
	DisclaimerAccepted bool          `json:"disclaimer_accepted" db:"disclaimer_accepted"`
	CreatedAt          time.Time     `json:"created_at"          db:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"          db:"updated_at"`
}

// Validate checks the public submission.
func (b *BookingRequest) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("name is required")
	}
	if !strings.Contains(b.Email, "@") {
		return errors.New("a valid email is required")
	}
	if !b.DisclaimerAccepted {
		return errors.New("the disclaimer must be accepted")
	}
	return nil
}

// VolunteerStatus is the review state of a volunteer application.
type VolunteerStatus string

const (
	VolunteerNew       VolunteerStatus = "NEW"
	VolunteerReviewing VolunteerStatus = "REVIEWING"
	VolunteerAccepted  VolunteerStatus = "ACCEPTED"
	VolunteerDeclined  VolunteerStatus = "DECLINED"
)

func (s VolunteerStatus) Valid() bool {
	switch s {
	case VolunteerNew, VolunteerReviewing, VolunteerAccepted, VolunteerDeclined:
		return true
	default:
		return false
	}
}

// VolunteerApplication is a volunteer signup from the partner page.
type VolunteerApplication struct {
	ID           string          `json:"id"            db:"id"`
	Name         string          `json:"name"          db:"name"`
	Email        string          `json:"email"         db:"email"`
	Phone        *string         `json:"phone"         db:"phone"`
	InterestArea string          `json:"interest_area" db:"interest_area"`
	Message      string          `json:"message"       db:"message"`
	Status       VolunteerStatus `json:"status"        db:"status"`
	CreatedAt    time.Time       `json:"created_at"    db:"created_at"`
}

// Subscriber is one newsletter signup. Email is unique; re-subscribing
// reactivates the existing row.
type Subscriber struct {
	ID        string    `json:"id"         db:"id"`
	Email     string    `json:"email"      db:"email"`
	Consent   bool      `json:"consent"    db:"consent"`
	IsActive  bool      `json:"is_active"  db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
