package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/domain"
)

// facilityChecker contrato mínimo para validar el centro del token.
// Lo implementa *usecase.FacilityUseCase.
type facilityChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// RequireKnownFacility verifica que el centro del token exista en el registro.
// Debe usarse DESPUÉS de AuthMiddleware. Un token sin centro pasa (acceso a toda la red).
//
// Comportamiento:
//   - 403 Forbidden → centro desconocido.
//   - 503 Service Unavailable → fallo al consultar la DB.
func RequireKnownFacility(checker facilityChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		facility := GetFacility(c)
		if facility == "" {
			return c.Next()
		}
		ok, err := checker.Exists(c.Context(), facility)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "FACILITY_CHECK_FAILED",
				Message: "no se pudo verificar el centro, intente más tarde",
			})
		}
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FACILITY_UNKNOWN",
				Message: "el centro '" + facility + "' no está registrado",
			})
		}
		return c.Next()
	}
}

// facilityLookup devuelve el centro dueño del registro :id.
// Lo implementan los casos de uso (FacilityOf).
type facilityLookup interface {
	FacilityOf(ctx context.Context, id string) (string, error)
}

// RequireOwnFacility rutas con :id. Un token limitado a un centro no lee ni modifica
// registros de otro centro. Va DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 404 Not Found → el registro no existe.
//   - 403 Forbidden → el registro es de otro centro.
func RequireOwnFacility(lookup facilityLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scoped := GetFacility(c)
		if scoped == "" {
			return c.Next()
		}
		owner, err := lookup.FacilityOf(c.Context(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		if !strings.EqualFold(strings.TrimSpace(owner), strings.TrimSpace(scoped)) {
			return respondError(c, domain.ErrForbidden)
		}
		return c.Next()
	}
}

// scopeQuery un usuario limitado a un centro solo ve ese centro.
func scopeQuery(c *fiber.Ctx, q *dto.ListQuery) {
	if f := GetFacility(c); f != "" {
		q.Facility = f
	}
}
