package usecase

import (
	"github.com/jhoicas/dental-ops-api/internal/application/dto"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// StatusCatalog estados de un tipo de entidad con su presentación, en orden de flujo.
func StatusCatalog(kind string) (*dto.StatusesResponse, error) {
	d, err := workflow.Describe(workflow.Kind(kind))
	if err != nil {
		return nil, err
	}
	out := &dto.StatusesResponse{
		Kind:                   string(d.Kind),
		Initial:                string(d.Initial),
		RequiresTransitionDate: d.RequiresTransitionDate,
	}
	for _, s := range d.Statuses() {
		out.Statuses = append(out.Statuses, dto.NewStatusStyle(s))
	}
	return out, nil
}
