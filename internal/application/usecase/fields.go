package usecase

import (
	"time"

	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/filter"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// Campos filtrables de cada listado y sus filtros rápidos.

// LongDowntime a partir de cuánto un reporte abierto se considera demorado.
const LongDowntime = 72 * time.Hour

func contractFields() filter.Fields[*entity.Contract] {
	return filter.Fields[*entity.Contract]{
		Searchable: []func(*entity.Contract) string{
			func(c *entity.Contract) string { return c.ID },
			func(c *entity.Contract) string { return c.ContractNumber },
			func(c *entity.Contract) string { return c.ItemName },
			func(c *entity.Contract) string { return c.Supplier },
			func(c *entity.Contract) string { return c.Description },
		},
		Facility: func(c *entity.Contract) string { return c.FacilityName },
		Category: func(c *entity.Contract) string { return c.Category },
		Status:   func(c *entity.Contract) string { return string(c.Status) },
		Supplier: func(c *entity.Contract) string { return c.Supplier },
		Date:     func(c *entity.Contract) *time.Time { return c.ContractDate },
		Quick: filter.QuickFilters[*entity.Contract]{
			"pending":         func(c *entity.Contract) bool { return c.Status == workflow.StatusNew || c.Status == workflow.StatusApproved },
			"in_progress":     func(c *entity.Contract) bool { return c.Status == workflow.StatusContracted },
			"delivered":       func(c *entity.Contract) bool { return c.Status == workflow.StatusDelivered },
			"rejected":        func(c *entity.Contract) bool { return c.Status == workflow.StatusRejected },
			"has_remaining":   func(c *entity.Contract) bool { return c.Remaining.IsPositive() },
			"with_attachment": func(c *entity.Contract) bool { return attachment.KindOf(c.Attachment) != attachment.KindNone },
		},
	}
}

func orderFields() filter.Fields[*entity.DirectPurchaseOrder] {
	return filter.Fields[*entity.DirectPurchaseOrder]{
		Searchable: []func(*entity.DirectPurchaseOrder) string{
			func(o *entity.DirectPurchaseOrder) string { return o.ID },
			func(o *entity.DirectPurchaseOrder) string { return o.OrderNumber },
			func(o *entity.DirectPurchaseOrder) string { return o.ItemName },
			func(o *entity.DirectPurchaseOrder) string { return o.Supplier },
			func(o *entity.DirectPurchaseOrder) string { return o.Description },
		},
		Facility: func(o *entity.DirectPurchaseOrder) string { return o.FacilityName },
		Category: func(o *entity.DirectPurchaseOrder) string { return o.Category },
		Status:   func(o *entity.DirectPurchaseOrder) string { return string(o.Status) },
		Supplier: func(o *entity.DirectPurchaseOrder) string { return o.Supplier },
		Date:     func(o *entity.DirectPurchaseOrder) *time.Time { return o.OrderDate },
		Quick: filter.QuickFilters[*entity.DirectPurchaseOrder]{
			"pending":         func(o *entity.DirectPurchaseOrder) bool { return o.Status == workflow.StatusNew || o.Status == workflow.StatusApproved },
			"in_progress":     func(o *entity.DirectPurchaseOrder) bool { return o.Status == workflow.StatusOrdered },
			"delivered":       func(o *entity.DirectPurchaseOrder) bool { return o.Status == workflow.StatusDelivered },
			"rejected":        func(o *entity.DirectPurchaseOrder) bool { return o.Status == workflow.StatusRejected },
			"has_remaining":   func(o *entity.DirectPurchaseOrder) bool { return o.Remaining.IsPositive() },
			"with_attachment": func(o *entity.DirectPurchaseOrder) bool { return attachment.KindOf(o.Attachment) != attachment.KindNone },
		},
	}
}

// reportFields depende de now por el filtro de tiempo fuera de servicio.
func reportFields(now time.Time) filter.Fields[*entity.Report] {
	return filter.Fields[*entity.Report]{
		Searchable: []func(*entity.Report) string{
			func(r *entity.Report) string { return r.ID },
			func(r *entity.Report) string { return r.ReportNumber },
			func(r *entity.Report) string { return r.DeviceName },
			func(r *entity.Report) string { return r.DeviceSerial },
			func(r *entity.Report) string { return r.Description },
			func(r *entity.Report) string { return r.ReportedBy },
		},
		Facility: func(r *entity.Report) string { return r.FacilityName },
		Category: func(r *entity.Report) string { return r.Category },
		Status:   func(r *entity.Report) string { return string(r.Status) },
		Date: func(r *entity.Report) *time.Time {
			d := r.ReportDate
			return &d
		},
		Quick: filter.QuickFilters[*entity.Report]{
			"open":           func(r *entity.Report) bool { return r.Status == workflow.StatusOpen },
			"closed":         func(r *entity.Report) bool { return r.Status == workflow.StatusClosed },
			"out_of_service": func(r *entity.Report) bool { return r.Status == workflow.StatusOutOfService },
			"long_downtime": func(r *entity.Report) bool {
				return r.Status != workflow.StatusClosed && r.Downtime(now).Elapsed() >= LongDowntime
			},
		},
	}
}
