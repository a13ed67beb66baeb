package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/domain"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/dto"
	"github.com/AnthoniusHendriyanto/clinic-service/internal/clinic/service"
)

type EmployeeHandler struct {
	employeeService *service.EmployeeService
}

func NewEmployeeHandler(employeeService *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) Create(c *fiber.Ctx) error {
	var input dto.EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	employee, err := h.employeeService.Create(c.Context(), actorFromCtx(c), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(employeeOutput(employee))
}

func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	employee, err := h.employeeService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(employeeOutput(employee))
}

func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.employeeService.List(c.Context())
	if err != nil {
		return fail(c, err)
	}

	out := make([]dto.EmployeeOutput, 0, len(employees))
	for i := range employees {
		out = append(out, employeeOutput(&employees[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *EmployeeHandler) Update(c *fiber.Ctx) error {
	var input dto.EmployeeInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c)
	}

	employee, err := h.employeeService.Update(c.Context(), actorFromCtx(c), c.Params("id"), input)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(employeeOutput(employee))
}

func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	if err := h.employeeService.Delete(c.Context(), actorFromCtx(c), c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func employeeOutput(e *domain.Employee) dto.EmployeeOutput {
	return dto.EmployeeOutput{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		FullName:  e.FullName(),
		Document:  e.Document,
		Position:  e.Position,
		HireDate:  e.HireDate,
		Phone:     e.Phone,
		Email:     e.Email,
		CreatedAt: e.CreatedAt,
	}
}
