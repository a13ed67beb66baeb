package domain

import "time"

// MedicalRecord is a clinical note attached to a patient.
type MedicalRecord struct {
	ID        string
	PatientID string
	Title     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
