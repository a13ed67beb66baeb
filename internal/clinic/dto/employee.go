package dto

import "time"

type EmployeeInput struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Document  string     `json:"document"`
	Position  string     `json:"position"`
	HireDate  *time.Time `json:"hire_date"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
}

type EmployeeOutput struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	Document  string     `json:"document"`
	Position  string     `json:"position"`
	HireDate  *time.Time `json:"hire_date,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
