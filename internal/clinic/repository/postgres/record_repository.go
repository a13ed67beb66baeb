package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
)

type RecordRepository struct {
	db DB
}

func NewRecordRepository(db DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) Get(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, patient_id, title, notes, created_at, updated_at
		FROM medical_records
		WHERE id = $1
		LIMIT 1
	`, id)

	var rec domain.MedicalRecord
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.Title, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan medical record: %w", err)
	}
	return &rec, nil
}

func (r *RecordRepository) ListByPatient(ctx context.Context, patientID string) ([]domain.MedicalRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, patient_id, title, notes, created_at, updated_at
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	defer rows.Close()

	var records []domain.MedicalRecord
	for rows.Next() {
		var rec domain.MedicalRecord
		if err := rows.Scan(&rec.ID, &rec.PatientID, &rec.Title, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan medical record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *RecordRepository) Create(ctx context.Context, rec *domain.MedicalRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO medical_records (id, patient_id, title, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, rec.PatientID, rec.Title, rec.Notes, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *RecordRepository) Update(ctx context.Context, rec *domain.MedicalRecord) error {
	_, err := r.db.Exec(ctx, `
		UPDATE medical_records SET title = $2, notes = $3, updated_at = $4 WHERE id = $1
	`, rec.ID, rec.Title, rec.Notes, rec.UpdatedAt)
	return err
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	return err
}
