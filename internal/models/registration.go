package models

import "time"

// RegistrationStatus represents the staff-review lifecycle of a registration.
type RegistrationStatus string

// Possible registration statuses. Transitions are free-form: staff may move
// a registration between any two statuses any number of times.
const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// Valid reports whether the status is part of the enumeration.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusApproved, RegistrationStatusRejected:
		return true
	}
	return false
}

// Registration captures a student's submitted intent to enroll in a course.
// CourseName is denormalized at submission time and is not kept in sync with
// later course edits.
type Registration struct {
	ID            string             `db:"id" json:"id"`
	CourseID      string             `db:"course_id" json:"course_id"`
	CourseName    string             `db:"course_name" json:"course_name"`
	UserID        *string            `db:"user_id" json:"user_id,omitempty"`
	FullName      string             `db:"full_name" json:"full_name"`
	Email         string             `db:"email" json:"email"`
	Phone         string             `db:"phone" json:"phone"`
	Age           string             `db:"age" json:"age,omitempty"`
	Experience    string             `db:"experience" json:"experience,omitempty"`
	PreferredTime string             `db:"preferred_time" json:"preferred_time,omitempty"`
	Timezone      string             `db:"timezone" json:"timezone,omitempty"`
	Message       string             `db:"message" json:"message,omitempty"`
	Status        RegistrationStatus `db:"status" json:"status"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
}

// RegistrationFilter provides filters for listing registrations.
type RegistrationFilter struct {
	CourseID string
	Status   RegistrationStatus
	Limit    int
}
