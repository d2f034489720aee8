package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON (o query) del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	return v
}

// validateStruct aplica las etiquetas validate y devuelve un *domain.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("body", err.Error())
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, domain.FieldError{Field: e.Field(), Message: validationMessage(e)})
	}
	return &domain.ValidationError{Fields: fields}
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "es obligatorio"
	case "min":
		if e.Kind() == reflect.String {
			return "debe tener al menos " + e.Param() + " caracteres"
		}
		return "debe ser al menos " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "debe tener como máximo " + e.Param() + " caracteres"
		}
		return "debe ser como máximo " + e.Param()
	case "oneof":
		return "debe ser uno de: " + e.Param()
	case "datetime":
		return "formato de hora inválido (HH:MM)"
	default:
		return "valor inválido"
	}
}

// bindBody parsea y valida el cuerpo JSON.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("body", "cuerpo inválido")
	}
	return validateStruct(out)
}

// bindQuery parsea y valida los filtros del listado.
func bindQuery(c *fiber.Ctx) (dto.ListQuery, error) {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return q, domain.NewValidationError("query", "parámetros inválidos")
	}
	if err := validateStruct(&q); err != nil {
		return q, err
	}
	scopeQuery(c, &q)
	return q, nil
}

// checkFacility un usuario limitado a un centro no puede registrar datos de otro.
func checkFacility(c *fiber.Ctx, facility string) error {
	if scoped := GetFacility(c); scoped != "" && !strings.EqualFold(scoped, facility) {
		return domain.ErrForbidden
	}
	return nil
}

func confirmed(c *fiber.Ctx) bool {
	return c.QueryBool("confirm", false)
}
