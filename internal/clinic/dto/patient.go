package dto

import "time"

type PatientInput struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Document  string     `json:"document"`
	BirthDate *time.Time `json:"birth_date"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
}

type PatientOutput struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	Document  string     `json:"document"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	Address   string     `json:"address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type PatientPageOutput struct {
	Patients []PatientOutput `json:"patients"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PerPage  int             `json:"per_page"`
}
