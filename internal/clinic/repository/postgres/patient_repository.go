package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
)

type PatientRepository struct {
	db DB
}

func NewPatientRepository(db DB) *PatientRepository {
	return &PatientRepository{db: db}
}

const patientColumns = `id, first_name, last_name, document, birth_date, phone, email, address, created_at`

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var p domain.Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Document, &p.BirthDate,
		&p.Phone, &p.Email, &p.Address, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepository) Get(ctx context.Context, id string) (*domain.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE id = $1 LIMIT 1`, patientColumns)
	return scanPatient(r.db.QueryRow(ctx, query, id))
}

func (r *PatientRepository) GetByDocument(ctx context.Context, document string) (*domain.Patient, error) {
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE document = $1 LIMIT 1`, patientColumns)
	return scanPatient(r.db.QueryRow(ctx, query, document))
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO patients (id, first_name, last_name, document, birth_date, phone, email, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.FirstName, p.LastName, p.Document, p.BirthDate, p.Phone, p.Email, p.Address, p.CreatedAt)
	return err
}

func (r *PatientRepository) Update(ctx context.Context, p *domain.Patient) error {
	_, err := r.db.Exec(ctx, `
		UPDATE patients
		SET first_name = $2, last_name = $3, document = $4, birth_date = $5, phone = $6, email = $7, address = $8
		WHERE id = $1
	`, p.ID, p.FirstName, p.LastName, p.Document, p.BirthDate, p.Phone, p.Email, p.Address)
	return err
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	return err
}

// Search matches the query against names and document, case-insensitively,
// and returns one page plus the total match count.
func (r *PatientRepository) Search(ctx context.Context, query string, page, perPage int) ([]domain.Patient, int, error) {
	pattern := "%" + query + "%"

	var total int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM patients
		WHERE $1 = '' OR first_name ILIKE $2 OR last_name ILIKE $2 OR document ILIKE $2
	`, query, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	offset := (page - 1) * perPage
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM patients
		WHERE $1 = '' OR first_name ILIKE $2 OR last_name ILIKE $2 OR document ILIKE $2
		ORDER BY last_name, first_name
		LIMIT $3 OFFSET $4
	`, patientColumns), query, pattern, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search patients: %w", err)
	}
	defer rows.Close()

	var patients []domain.Patient
	for rows.Next() {
		var p domain.Patient
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Document, &p.BirthDate,
			&p.Phone, &p.Email, &p.Address, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, p)
	}

	return patients, total, rows.Err()
}
