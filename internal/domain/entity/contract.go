package entity

import (
	"time"

	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

// Contract contrato de compra de un centro con un proveedor.
// El estado solo cambia a través del motor de workflow (new → approved → contracted → delivered | rejected).
type Contract struct {
	ID             string
	ContractNumber string
	FacilityName   string
	ItemName       string
	Description    string
	Category       string
	Supplier       string
	Quantities
	workflow.State
	ContractDate *time.Time
	Attachment   *attachment.Ref
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c *Contract) WorkflowKind() workflow.Kind { return workflow.KindContract }
func (c *Contract) EntityID() string { return c.ID }
func (c *Contract) WorkflowState() workflow.State { return c.State }
func (c *Contract) SetWorkflowState(s workflow.State) { c.State = s }
func (c *Contract) SetAttachment(ref *attachment.Ref) { c.Attachment = ref }
func (c *Contract) CurrentAttachment() *attachment.Ref { return c.Attachment }

// DirectPurchaseOrder orden de compra directa (sin contrato marco).
// Flujo: new → approved → ordered → delivered | rejected; cada cambio exige fecha.
type DirectPurchaseOrder struct {
	ID           string
	OrderNumber  string
	FacilityName string
	ItemName     string
	Description  string
	Category     string
	Supplier     string
	Quantities
	workflow.State
	OrderDate  *time.Time
	Attachment *attachment.Ref
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (o *DirectPurchaseOrder) WorkflowKind() workflow.Kind { return workflow.KindOrder }
func (o *DirectPurchaseOrder) EntityID() string { return o.ID }
func (o *DirectPurchaseOrder) WorkflowState() workflow.State { return o.State }
func (o *DirectPurchaseOrder) SetWorkflowState(s workflow.State) { o.State = s }
func (o *DirectPurchaseOrder) SetAttachment(ref *attachment.Ref) { o.Attachment = ref }
func (o *DirectPurchaseOrder) CurrentAttachment() *attachment.Ref { return o.Attachment }
