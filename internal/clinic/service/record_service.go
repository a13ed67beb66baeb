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

type RecordService struct {
	repo     domain.RecordRepository
	patients domain.PatientRepository
	audit    audit.Recorder
	log      *zap.Logger
}

func NewRecordService(
	repo domain.RecordRepository,
	patients domain.PatientRepository,
	rec audit.Recorder,
	log *zap.Logger,
) *RecordService {
	return &RecordService{repo: repo, patients: patients, audit: rec, log: log}
}

func (s *RecordService) Create(ctx context.Context, actor audit.Actor, patientID string, input dto.RecordInput) (*domain.MedicalRecord, error) {
	patient, err := s.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, autherror.ErrPatientNotFound
	}

	now := time.Now()
	record := &domain.MedicalRecord{
		ID:        uuid.New().String(),
		PatientID: patientID,
		Title:     input.Title,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "record_create", map[string]any{
		"record_id":  record.ID,
		"patient_id": patientID,
	})
	return record, nil
}

func (s *RecordService) Update(ctx context.Context, actor audit.Actor, id string, input dto.RecordInput) (*domain.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, autherror.ErrRecordNotFound
	}

	record.Title = input.Title
	record.Notes = input.Notes
	record.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "record_update", map[string]any{
		"record_id": record.ID,
	})
	return record, nil
}

func (s *RecordService) Delete(ctx context.Context, actor audit.Actor, id string) error {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return autherror.ErrRecordNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "record_delete", map[string]any{
		"record_id": id,
	})
	return nil
}

func (s *RecordService) Get(ctx context.Context, id string) (*domain.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, autherror.ErrRecordNotFound
	}
	return record, nil
}

func (s *RecordService) ListByPatient(ctx context.Context, patientID string) ([]domain.MedicalRecord, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
