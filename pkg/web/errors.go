package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusBadRequest).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

// upstreamError maps a gateway fetch failure to 502 so callers can tell the
// monitor apart from the platform it watches.
func upstreamError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(fiber.StatusBadGateway).
		WithInstance(c.Path()).
		WithType("upstream_fetch_failure").
		WithDetail(err.Error())

	return c.Status(fiber.StatusBadGateway).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}
