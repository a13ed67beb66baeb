package domain

import (
	"strings"
	"time"
)

type Patient struct {
	ID        string
	FirstName string
	LastName  string
	Document  string
	BirthDate *time.Time
	Phone     string
	Email     string
	Address   string
	CreatedAt time.Time
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
