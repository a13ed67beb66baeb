package domain

import (
	"strings"
	"time"
)

type Employee struct {
	ID        string
	FirstName string
	LastName  string
	Document  string
	Position  string
	HireDate  *time.Time
	Phone     string
	Email     string
	CreatedAt time.Time
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}
