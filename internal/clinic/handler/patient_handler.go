package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/dto"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
)

type PatientHandler struct {
	patientService *service.PatientService
}

func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var input dto.PatientInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	patient, err := h.patientService.Create(c.Context(), actorFromCtx(c), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(patientOutput(patient))
}

func (h *PatientHandler) Get(c *fiber.Ctx) error {
	patient, err := h.patientService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(patientOutput(patient))
}

func (h *PatientHandler) Update(c *fiber.Ctx) error {
	var input dto.PatientInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	patient, err := h.patientService.Update(c.Context(), actorFromCtx(c), c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(patientOutput(patient))
}

func (h *PatientHandler) Delete(c *fiber.Ctx) error {
	if err := h.patientService.Delete(c.Context(), actorFromCtx(c), c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PatientHandler) Search(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page", "10"))

	patients, total, err := h.patientService.Search(c.Context(), c.Query("q"), page, perPage)
	if err != nil {
		return fail(c, err)
	}

	out := dto.PatientPageOutput{
		Patients: make([]dto.PatientOutput, 0, len(patients)),
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
	for i := range patients {
		out.Patients = append(out.Patients, patientOutput(&patients[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func patientOutput(p *domain.Patient) dto.PatientOutput {
	return dto.PatientOutput{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Document:  p.Document,
		BirthDate: p.BirthDate,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
	}
}
