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

type AppointmentService struct {
	repo     domain.AppointmentRepository
	patients domain.PatientRepository
	audit    audit.Recorder
	log      *zap.Logger
}

func NewAppointmentService(
	repo domain.AppointmentRepository,
	patients domain.PatientRepository,
	rec audit.Recorder,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, patients: patients, audit: rec, log: log}
}

func (s *AppointmentService) Create(ctx context.Context, actor audit.Actor, input dto.AppointmentInput) (*domain.Appointment, error) {
	patient, err := s.patients.Get(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, autherror.ErrPatientNotFound
	}

	appointment := &domain.Appointment{
		ID:          uuid.New().String(),
		PatientID:   input.PatientID,
		ScheduledAt: input.ScheduledAt,
		Reason:      input.Reason,
		Status:      domain.AppointmentScheduled,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "appointment_create", map[string]any{
		"appointment_id": appointment.ID,
		"patient_id":     appointment.PatientID,
	})
	return appointment, nil
}

// Update reschedules an appointment or changes its reason. Status moves only
// through Cancel and Complete.
func (s *AppointmentService) Update(ctx context.Context, actor audit.Actor, id string, input dto.AppointmentInput) (*domain.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, autherror.ErrAppointmentNotFound
	}

	appointment.ScheduledAt = input.ScheduledAt
	appointment.Reason = input.Reason

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "appointment_update", map[string]any{
		"appointment_id": appointment.ID,
	})
	return appointment, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, actor audit.Actor, id string) (*domain.Appointment, error) {
	return s.transition(ctx, actor, id, domain.AppointmentCancelled, "appointment_cancel")
}

func (s *AppointmentService) Complete(ctx context.Context, actor audit.Actor, id string) (*domain.Appointment, error) {
	return s.transition(ctx, actor, id, domain.AppointmentCompleted, "appointment_complete")
}

func (s *AppointmentService) transition(ctx context.Context, actor audit.Actor, id, status, action string) (*domain.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, autherror.ErrAppointmentNotFound
	}

	if !appointment.CanTransitionTo(status) {
		return nil, autherror.ErrInvalidTransition
	}

	appointment.Status = status
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	s.audit.Record(actor.AuditID(), actor.IP, action, map[string]any{
		"appointment_id": appointment.ID,
	})
	return appointment, nil
}

func (s *AppointmentService) Delete(ctx context.Context, actor audit.Actor, id string) error {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if appointment == nil {
		return autherror.ErrAppointmentNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(actor.AuditID(), actor.IP, "appointment_delete", map[string]any{
		"appointment_id": id,
	})
	return nil
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, autherror.ErrAppointmentNotFound
	}
	return appointment, nil
}

func (s *AppointmentService) List(ctx context.Context) ([]domain.Appointment, error) {
	return s.repo.List(ctx)
}

func (s *AppointmentService) ListByPatient(ctx context.Context, patientID string) ([]domain.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
