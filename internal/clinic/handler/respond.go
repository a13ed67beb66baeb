package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	autherror "github.com/AnthoniusHendriyanto/clinic-service/internal/errors"
)

// fail maps service errors onto HTTP statuses. Internal error detail never
// reaches the response body.
func fail(c *fiber.Ctx, err error) error {
	var policyErr *autherror.PolicyViolationError
	if errors.As(err, &policyErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": policyErr.Message,
			"rule":  policyErr.Rule,
		})
	}

	var attemptsErr *autherror.RemainingAttemptsError
	if errors.As(err, &attemptsErr) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":              autherror.ErrInvalidCredentials.Error(),
			"remaining_attempts": attemptsErr.Remaining,
		})
	}

	switch {
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrRefreshTokenNotFound),
		errors.Is(err, autherror.ErrRefreshTokenRevoked),
		errors.Is(err, autherror.ErrRefreshTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, autherror.ErrAccountLocked):
		return c.Status(fiber.StatusLocked).JSON(fiber.Map{
			"error": "account temporarily locked, try again later",
		})

	case errors.Is(err, autherror.ErrUsernameTaken),
		errors.Is(err, autherror.ErrDocumentInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, autherror.ErrInvalidRole),
		errors.Is(err, autherror.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, autherror.ErrUserNotFound),
		errors.Is(err, autherror.ErrPatientNotFound),
		errors.Is(err, autherror.ErrAppointmentNotFound),
		errors.Is(err, autherror.ErrEmployeeNotFound),
		errors.Is(err, autherror.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
}
