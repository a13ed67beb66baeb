package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/dto"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
)

type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var input dto.AppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	appointment, err := h.appointmentService.Create(c.Context(), actorFromCtx(c), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(appointmentOutput(appointment))
}

func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	appointment, err := h.appointmentService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(appointmentOutput(appointment))
}

func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	appointments, err := h.appointmentService.List(c.Context())
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(appointmentOutputs(appointments))
}

func (h *AppointmentHandler) ListByPatient(c *fiber.Ctx) error {
	appointments, err := h.appointmentService.ListByPatient(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(appointmentOutputs(appointments))
}

func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	var input dto.AppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	appointment, err := h.appointmentService.Update(c.Context(), actorFromCtx(c), c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(appointmentOutput(appointment))
}

func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	appointment, err := h.appointmentService.Cancel(c.Context(), actorFromCtx(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(appointmentOutput(appointment))
}

func (h *AppointmentHandler) Complete(c *fiber.Ctx) error {
	appointment, err := h.appointmentService.Complete(c.Context(), actorFromCtx(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(appointmentOutput(appointment))
}

func (h *AppointmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.appointmentService.Delete(c.Context(), actorFromCtx(c), c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func appointmentOutput(a *domain.Appointment) dto.AppointmentOutput {
	return dto.AppointmentOutput{
		ID:          a.ID,
		PatientID:   a.PatientID,
		ScheduledAt: a.ScheduledAt,
		Reason:      a.Reason,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt,
	}
}

func appointmentOutputs(appointments []domain.Appointment) []dto.AppointmentOutput {
	out := make([]dto.AppointmentOutput, 0, len(appointments))
	for i := range appointments {
		out = append(out, appointmentOutput(&appointments[i]))
	}

	return out
}
