package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/audit"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/dto"
	autherror "github.com/AnthoniusHendriyanto/clinic-service/internal/errors"
)

type EmployeeService struct {
	repo  domain.EmployeeRepository
	audit audit.Recorder
	log   *zap.Logger
}

func NewEmployeeService(repo domain.EmployeeRepository, rec audit.Recorder, log *zap.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, audit: rec, log: log}
}

func (s *EmployeeService) Create(ctx context.Context, actor audit.Actor, input dto.EmployeeInput) (*domain.Employee, error) {
	existing, err := s.repo.GetByDocument(ctx, input.Document)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrDocumentInUse
	}

	employee := &domain.Employee{
		ID:        uuid.New().String(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Document:  input.Document,
		Position:  input.Position,
		HireDate:  input.HireDate,
		Phone:     input.Phone,
		Email:     input.Email,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "employee_create", map[string]any{
		"document": employee.Document,
	})
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, actor audit.Actor, id string, input dto.EmployeeInput) (*domain.Employee, error) {
	employee, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, autherror.ErrEmployeeNotFound
	}

	if input.Document != employee.Document {
		existing, err := s.repo.GetByDocument(ctx, input.Document)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, autherror.ErrDocumentInUse
		}
	}

	employee.FirstName = input.FirstName
	employee.LastName = input.LastName
	employee.Document = input.Document
	employee.Position = input.Position
	employee.HireDate = input.HireDate
	employee.Phone = input.Phone
	employee.Email = input.Email

	if err := s.repo.Update(ctx, employee); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "employee_update", map[string]any{
		"employee_id": employee.ID,
	})
	return employee, nil
}

func (s *EmployeeService) Delete(ctx context.Context, actor audit.Actor, id string) error {
	employee, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if employee == nil {
		return autherror.ErrEmployeeNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "employee_delete", map[string]any{
		"employee_id": id,
	})
	return nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	employee, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, autherror.ErrEmployeeNotFound
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.List(ctx)
}
