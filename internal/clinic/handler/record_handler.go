package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/dto"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
)

type RecordHandler struct {
	recordService *service.RecordService
}

func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

func (h *RecordHandler) Create(c *fiber.Ctx) error {
	var input dto.RecordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	record, err := h.recordService.Create(c.Context(), actorFromCtx(c), c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(recordOutput(record))
}

func (h *RecordHandler) Get(c *fiber.Ctx) error {
	record, err := h.recordService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(recordOutput(record))
}

func (h *RecordHandler) ListByPatient(c *fiber.Ctx) error {
	records, err := h.recordService.ListByPatient(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	out := make([]dto.RecordOutput, 0, len(records))
	for i := range records {
		out = append(out, recordOutput(&records[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *RecordHandler) Update(c *fiber.Ctx) error {
	var input dto.RecordInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	record, err := h.recordService.Update(c.Context(), actorFromCtx(c), c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(recordOutput(record))
}

func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	if err := h.recordService.Delete(c.Context(), actorFromCtx(c), c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func recordOutput(r *domain.MedicalRecord) dto.RecordOutput {
	return dto.RecordOutput{
		ID:        r.ID,
		PatientID: r.PatientID,
		Title:     r.Title,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
