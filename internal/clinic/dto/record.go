package dto

import "time"

type RecordInput struct {
	Title string `json:"title"`
	Notes string `json:"notes"`
}

type RecordOutput struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patient_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
