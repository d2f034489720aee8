package dto

import "time"

// CreateReportRequest entrada para abrir un reporte de falla.
type CreateReportRequest struct {
	ReportNumber string `json:"report_number" validate:"required,max=100"`
	FacilityName string `json:"facility_name" validate:"required,max=200"`
	DeviceName   string `json:"device_name" validate:"required,max=200"`
	DeviceSerial string `json:"device_serial" validate:"max=100"`
	Category     string `json:"category" validate:"max=100"`
	Description  string `json:"description" validate:"max=2000"`
	ReportedBy   string `json:"reported_by" validate:"max=200"`
	ReportDate   string `json:"report_date" validate:"required"`
	ReportTime   string `json:"report_time" validate:"omitempty,datetime=15:04|datetime=15:04:05"`
	Note         string `json:"note" validate:"max=1000"`
}

// UpdateReportRequest edición de un reporte.
type UpdateReportRequest struct {
	ReportNumber *string `json:"report_number" validate:"omitempty,min=1,max=100"`
	FacilityName *string `json:"facility_name" validate:"omitempty,min=1,max=200"`
	DeviceName   *string `json:"device_name" validate:"omitempty,min=1,max=200"`
	DeviceSerial *string `json:"device_serial" validate:"omitempty,max=100"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	ReportedBy   *string `json:"reported_by" validate:"omitempty,max=200"`
	ReportDate   *string `json:"report_date"`
	ReportTime   *string `json:"report_time" validate:"omitempty,datetime=15:04|datetime=15:04:05"`
}

// DowntimeDTO tiempo fuera de servicio calculado al momento de la respuesta.
type DowntimeDTO struct {
	Days    int64  `json:"days"`
	Hours   int64  `json:"hours"`
	Minutes int64  `json:"minutes"`
	Label   string `json:"label"`
}

// ReportResponse salida de un reporte.
type ReportResponse struct {
	ID           string         `json:"id"`
	ReportNumber string         `json:"report_number"`
	FacilityName string         `json:"facility_name"`
	DeviceName   string         `json:"device_name"`
	DeviceSerial string         `json:"device_serial"`
	Category     string         `json:"category"`
	Description  string         `json:"description"`
	ReportedBy   string         `json:"reported_by"`
	ReportDate   time.Time      `json:"report_date"`
	ReportTime   string         `json:"report_time"`
	ResolvedAt   *time.Time     `json:"resolved_at,omitempty"`
	Downtime     DowntimeDTO    `json:"downtime"`
	Attachment   *AttachmentDTO `json:"attachment,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	WorkflowDTO
}
