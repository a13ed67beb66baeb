package domain

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_session_repository.go -package=mocks github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain SessionRepository
//go:generate mockgen -destination=../../mocks/mock_patient_repository.go -package=mocks github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain PatientRepository
//go:generate mockgen -destination=../../mocks/mock_appointment_repository.go -package=mocks github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain AppointmentRepository
//go:generate mockgen -destination=../../mocks/mock_employee_repository.go -package=mocks github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain EmployeeRepository
//go:generate mockgen -destination=../../mocks/mock_record_repository.go -package=mocks github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain RecordRepository

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, user *User) error
	List(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id, role string) error
	SetActive(ctx context.Context, id string, active bool) error
	ResetLockout(ctx context.Context, id string) error
	// RegisterFailedAttempt applies one failed login attempt under a row lock
	// and returns the updated user, so concurrent failures cannot both read
	// the same counter value.
	RegisterFailedAttempt(ctx context.Context, username string, maxAttempts int, lockFor time.Duration) (*User, error)
}

type SessionRepository interface {
	Store(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	ListActiveForUser(ctx context.Context, userID string) ([]Session, error)
	// DeleteOldestForUser trims a user's active sessions down to keep.
	DeleteOldestForUser(ctx context.Context, userID string, keep int) error
}

type PatientRepository interface {
	Get(ctx context.Context, id string) (*Patient, error)
	GetByDocument(ctx context.Context, document string) (*Patient, error)
	Create(ctx context.Context, patient *Patient) error
	Update(ctx context.Context, patient *Patient) error
	Delete(ctx context.Context, id string) error
	// Search returns one page of patients matching the query over name and
	// document, plus the total match count.
	Search(ctx context.Context, query string, page, perPage int) ([]Patient, int, error)
}

type AppointmentRepository interface {
	Get(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	Create(ctx context.Context, appointment *Appointment) error
	Update(ctx context.Context, appointment *Appointment) error
	Delete(ctx context.Context, id string) error
}

type EmployeeRepository interface {
	Get(ctx context.Context, id string) (*Employee, error)
	GetByDocument(ctx context.Context, document string) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, employee *Employee) error
	Update(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id string) error
}

type RecordRepository interface {
	Get(ctx context.Context, id string) (*MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID string) ([]MedicalRecord, error)
	Create(ctx context.Context, record *MedicalRecord) error
	Update(ctx context.Context, record *MedicalRecord) error
	Delete(ctx context.Context, id string) error
}
