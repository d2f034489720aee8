package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dental-ops-api/internal/domain"
	"github.com/jhoicas/dental-ops-api/internal/domain/attachment"
	"github.com/jhoicas/dental-ops-api/internal/domain/entity"
	"github.com/jhoicas/dental-ops-api/internal/domain/repository"
	"github.com/jhoicas/dental-ops-api/internal/domain/workflow"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

var reportsTable = workflowTable{kind: workflow.KindReport, table: "maintenance_reports", hasResolvedAt: true}

// ReportRepo reportes de mantenimiento sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func reportSelect() string {
	return `
		SELECT r.id, r.report_number, r.facility_name, r.device_name, r.device_serial, r.category,
		       r.description, r.reported_by, r.report_date, r.report_time,
		       r.status, ` + reportsTable.historyColumn("r") + `, r.resolved_at,
		       r.attachment, r.created_at, r.updated_at
		FROM maintenance_reports r`
}

func scanReport(row pgx.Row) (*entity.Report, error) {
	var rp entity.Report
	err := row.Scan(
		&rp.ID, &rp.ReportNumber, &rp.FacilityName, &rp.DeviceName, &rp.DeviceSerial, &rp.Category,
		&rp.Description, &rp.ReportedBy, &rp.ReportDate, &rp.ReportTime,
		&rp.Status, &rp.History, &rp.ResolvedAt,
		&rp.Attachment, &rp.CreatedAt, &rp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

// Create inserta el reporte con su entrada inicial de historial.
func (r *ReportRepo) Create(ctx context.Context, rp *entity.Report) error {
	if rp.ID == "" {
		rp.ID = uuid.New().String()
	}
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		query := `
			INSERT INTO maintenance_reports (id, report_number, facility_name, device_name, device_serial, category,
				description, reported_by, report_date, report_time, status, resolved_at, attachment, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
		_, err := tx.Exec(ctx, query,
			rp.ID, rp.ReportNumber, rp.FacilityName, rp.DeviceName, rp.DeviceSerial, rp.Category,
			rp.Description, rp.ReportedBy, rp.ReportDate, rp.ReportTime, rp.Status, rp.ResolvedAt,
			rp.Attachment, rp.CreatedAt, rp.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert report: %w", err)
		}
		return reportsTable.insertHistoryAll(ctx, tx, rp.ID, rp.History)
	})
}

// GetByID obtiene un reporte con su historial.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	rp, err := scanReport(r.q.QueryRow(ctx, reportSelect()+` WHERE r.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "get report")
	}
	return rp, nil
}

// Update actualiza los datos del reporte; estado y resolved_at solo cambian por UpdateStatus.
func (r *ReportRepo) Update(ctx context.Context, rp *entity.Report) error {
	query := `
		UPDATE maintenance_reports SET report_number = $2, facility_name = $3, device_name = $4,
			device_serial = $5, category = $6, description = $7, reported_by = $8,
			report_date = $9, report_time = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		rp.ID, rp.ReportNumber, rp.FacilityName, rp.DeviceName,
		rp.DeviceSerial, rp.Category, rp.Description, rp.ReportedBy,
		rp.ReportDate, rp.ReportTime, rp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todos los reportes por fecha de reporte descendente.
func (r *ReportRepo) List(ctx context.Context) ([]*entity.Report, error) {
	rows, err := r.q.Query(ctx, reportSelect()+` ORDER BY r.report_date DESC, r.report_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	var list []*entity.Report
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		list = append(list, rp)
	}
	return list, rows.Err()
}

func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	return reportsTable.delete(ctx, r.q, id)
}

func (r *ReportRepo) UpdateStatus(ctx context.Context, id string, from workflow.Status, next workflow.State, entry workflow.HistoryEntry) error {
	return reportsTable.updateStatus(ctx, r.q, id, from, next, entry)
}

func (r *ReportRepo) SetAttachment(ctx context.Context, id string, ref *attachment.Ref) error {
	return reportsTable.setAttachment(ctx, r.q, id, ref)
}
