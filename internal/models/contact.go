package models

import "time"

// ContactStatus is the review state of a contact submission. The four states
// form no enforced order: staff may set any of them at any time. The only
// automatic transition is new -> read when a submission is first viewed.
type ContactStatus string

// Possible contact submission statuses.
const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusRead     ContactStatus = "read"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusArchived ContactStatus = "archived"
)

// Valid reports whether the status is part of the enumeration.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied, ContactStatusArchived:
		return true
	}
	return false
}

// ContactSubject enumerates the inquiry categories of the contact form.
type ContactSubject string

// Supported contact subjects.
const (
	ContactSubjectGeneral     ContactSubject = "general"
	ContactSubjectCourses     ContactSubject = "courses"
	ContactSubjectEnrollment  ContactSubject = "enrollment"
	ContactSubjectTechnical   ContactSubject = "technical"
	ContactSubjectFeedback    ContactSubject = "feedback"
	ContactSubjectPartnership ContactSubject = "partnership"
	ContactSubjectOther       ContactSubject = "other"
)

// Valid reports whether the subject is part of the enumeration.
func (s ContactSubject) Valid() bool {
	switch s {
	case ContactSubjectGeneral, ContactSubjectCourses, ContactSubjectEnrollment,
		ContactSubjectTechnical, ContactSubjectFeedback, ContactSubjectPartnership,
		ContactSubjectOther:
		return true
	}
	return false
}

// PreferredContact enumerates the channels a submitter can be reached on.
type PreferredContact string

// Supported preferred-contact channels.
const (
	PreferredContactEmail    PreferredContact = "email"
	PreferredContactPhone    PreferredContact = "phone"
	PreferredContactWhatsapp PreferredContact = "whatsapp"
)

// Valid reports whether the channel is part of the enumeration.
func (p PreferredContact) Valid() bool {
	switch p {
	case PreferredContactEmail, PreferredContactPhone, PreferredContactWhatsapp:
		return true
	}
	return false
}

// ContactSubmission is an inbound inquiry captured from the public contact form.
type ContactSubmission struct {
	ID                     string           `db:"id" json:"id"`
	FirstName              string           `db:"first_name" json:"first_name"`
	LastName               string           `db:"last_name" json:"last_name"`
	Email                  string           `db:"email" json:"email"`
	Phone                  string           `db:"phone" json:"phone,omitempty"`
	Subject                ContactSubject   `db:"subject" json:"subject"`
	CourseInterest         string           `db:"course_interest" json:"course_interest,omitempty"`
	Message                string           `db:"message" json:"message"`
	PreferredContact       PreferredContact `db:"preferred_contact" json:"preferred_contact"`
	SubscribedToNewsletter bool             `db:"subscribed_to_newsletter" json:"subscribed_to_newsletter"`
	Status                 ContactStatus    `db:"status" json:"status"`
	CreatedAt              time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time        `db:"updated_at" json:"updated_at"`
}

// NewsletterSubscriber is the side-channel record created when a contact
// submission opts into the newsletter. It is write-only for this system.
type NewsletterSubscriber struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Source       string    `db:"source" json:"source"`
	SubscribedAt time.Time `db:"subscribed_at" json:"subscribed_at"`
}

// NewsletterSourceContactForm tags subscribers created by the contact pipeline.
const NewsletterSourceContactForm = "contact_form"

// ContactFilter provides filters for listing contact submissions.
type ContactFilter struct {
	Status ContactStatus
	Limit  int
}
