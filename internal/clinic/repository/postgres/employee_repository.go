package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
)

type EmployeeRepository struct {
	db DB
}

func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, first_name, last_name, document, position, hire_date, phone, email, created_at`

func scanEmployee(row pgx.Row) (*domain.Employee, error) {
	var e domain.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Document, &e.Position,
		&e.HireDate, &e.Phone, &e.Email, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) Get(ctx context.Context, id string) (*domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1 LIMIT 1`, employeeColumns)
	return scanEmployee(r.db.QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) GetByDocument(ctx context.Context, document string) (*domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE document = $1 LIMIT 1`, employeeColumns)
	return scanEmployee(r.db.QueryRow(ctx, query, document))
}

func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees ORDER BY last_name, first_name`, employeeColumns)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Document, &e.Position,
			&e.HireDate, &e.Phone, &e.Email, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO employees (id, first_name, last_name, document, position, hire_date, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.ID, e.FirstName, e.LastName, e.Document, e.Position, e.HireDate, e.Phone, e.Email, e.CreatedAt)
	return err
}

func (r *EmployeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	_, err := r.db.Exec(ctx, `
		UPDATE employees
		SET first_name = $2, last_name = $3, document = $4, position = $5, hire_date = $6, phone = $7, email = $8
		WHERE id = $1
	`, e.ID, e.FirstName, e.LastName, e.Document, e.Position, e.HireDate, e.Phone, e.Email)
	return err
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	return err
}
