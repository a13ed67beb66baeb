package domain

import "time"

const (
	AppointmentScheduled = "scheduled"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

type Appointment struct {
	ID          string
	PatientID   string
	ScheduledAt time.Time
	Reason      string
	Status      string
	CreatedAt   time.Time
}

// CanTransitionTo allows leaving the scheduled state only; cancelled and
// completed are terminal.
func (a *Appointment) CanTransitionTo(status string) bool {
	return a.Status == AppointmentScheduled &&
		(status == AppointmentCancelled || status == AppointmentCompleted)
}
