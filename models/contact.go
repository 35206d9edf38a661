package models

import "time"

// ContactRequest represents a contact form submission. Lifecycle is
// create-then-optionally-delete; Lu is a read flag kept for parity with the
// stored records.
type ContactRequest struct {
	ID        string     `json:"id" firestore:"-"`
	Nom       string     `json:"nom" firestore:"nom"`
	Email     string     `json:"email" firestore:"email"`
	Message   string     `json:"message" firestore:"message"`
	Lu        bool       `json:"lu" firestore:"lu"`
	CreatedAt *time.Time `json:"createdAt,omitempty" firestore:"createdAt"`
}
