package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/calc"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
)

// quantitiesFrom valida que las cantidades capturadas no sean negativas ni tengan más decimales
// de los que se guardan, y calcula los derivados.
func quantitiesFrom(in dto.QuantitiesRequest) (entity.Quantities, error) {
	var fields []domain.FieldError
	check := func(name string, v decimal.Decimal) {
		switch {
		case v.IsNegative():
			fields = append(fields, domain.FieldError{Field: name, Message: "no puede ser negativo"})
		case !calc.FitsPlaces(v, calc.QuantityPlaces):
			fields = append(fields, domain.FieldError{Field: name, Message: fmt.Sprintf("admite como máximo %d decimales", calc.QuantityPlaces)})
		}
	}
	check("quantity_requested", in.QuantityRequested.Decimal)
	check("quantity_received", in.QuantityReceived.Decimal)
	check("unit_price", in.UnitPrice.Decimal)
	if len(fields) > 0 {
		return entity.Quantities{}, &domain.ValidationError{Fields: fields}
	}
	return entity.NewQuantities(in.QuantityRequested.Decimal, in.QuantityReceived.Decimal, in.UnitPrice.Decimal), nil
}
