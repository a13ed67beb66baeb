package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
)

type AppointmentRepository struct {
	db DB
}

func NewAppointmentRepository(db DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, patient_id, scheduled_at, reason, status, created_at`

func (r *AppointmentRepository) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1 LIMIT 1`, appointmentColumns)
	row := r.db.QueryRow(ctx, query, id)

	var a domain.Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.ScheduledAt, &a.Reason, &a.Status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan appointment: %w", err)
	}
	return &a, nil
}

func (r *AppointmentRepository) List(ctx context.Context) ([]domain.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments ORDER BY scheduled_at`, appointmentColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE patient_id = $1 ORDER BY scheduled_at`, appointmentColumns)
	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	var appointments []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.ScheduledAt, &a.Reason, &a.Status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	return appointments, rows.Err()
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, scheduled_at, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.PatientID, a.ScheduledAt, a.Reason, a.Status, a.CreatedAt)
	return err
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	_, err := r.db.Exec(ctx, `
		UPDATE appointments SET scheduled_at = $2, reason = $3, status = $4 WHERE id = $1
	`, a.ID, a.ScheduledAt, a.Reason, a.Status)
	return err
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}
