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

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

type PatientService struct {
	repo  domain.PatientRepository
	audit audit.Recorder
	log   *zap.Logger
}

func NewPatientService(repo domain.PatientRepository, rec audit.Recorder, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, audit: rec, log: log}
}

func (s *PatientService) Create(ctx context.Context, actor audit.Actor, input dto.PatientInput) (*domain.Patient, error) {
	existing, err := s.repo.GetByDocument(ctx, input.Document)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.ErrDocumentInUse
	}

	patient := &domain.Patient{
		ID:        uuid.New().String(),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Document:  input.Document,
		BirthDate: input.BirthDate,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "patient_create", map[string]any{
		"document": patient.Document,
	})
	return patient, nil
}

func (s *PatientService) Update(ctx context.Context, actor audit.Actor, id string, input dto.PatientInput) (*domain.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, autherror.ErrPatientNotFound
	}

	if input.Document != patient.Document {
		existing, err := s.repo.GetByDocument(ctx, input.Document)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, autherror.ErrDocumentInUse
		}
	}

	patient.FirstName = input.FirstName
	patient.LastName = input.LastName
	patient.Document = input.Document
	patient.BirthDate = input.BirthDate
	patient.Phone = input.Phone
	patient.Email = input.Email
	patient.Address = input.Address

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "patient_update", map[string]any{
		"patient_id": patient.ID,
	})
	return patient, nil
}

func (s *PatientService) Delete(ctx context.Context, actor audit.Actor, id string) error {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if patient == nil {
		return autherror.ErrPatientNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "patient_delete", map[string]any{
		"patient_id": id,
	})
	return nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*domain.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, autherror.ErrPatientNotFound
	}
	return patient, nil
}

// Search clamps paging inputs before hitting the repository.
func (s *PatientService) Search(ctx context.Context, query string, page, perPage int) ([]domain.Patient, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return s.repo.Search(ctx, query, page, perPage)
}
