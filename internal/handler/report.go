package handler

import (
	"net/http"
	"time"

	"github.com/buildledger/construct-api/internal/engine"
	"github.com/buildledger/construct-api/internal/middleware"
	"github.com/buildledger/construct-api/internal/model"
	"github.com/buildledger/construct-api/pkg/database"
	"github.com/buildledger/construct-api/prometheus"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ReportHandler serves the read-only aggregate endpoints over the
// accounting ledger. These compute derived metrics outside the engine's
// invariants but consume its pagination contract.
type ReportHandler struct {
	db          *database.Handle
	development bool
}

// NewReportHandler builds the /reports controller
func NewReportHandler(db *database.Handle, development bool) *ReportHandler {
	return &ReportHandler{db: db, development: development}
}

// VarianceRow is one project's estimated-versus-actual financial line
type VarianceRow struct {
	ProjectScheduleID string  `json:"project_schedule_id"`
	ProjectName       string  `json:"project_name"`
	Budget            float64 `json:"budget"`
	ActualTotal       float64 `json:"actual_total"`
	Variance          float64 `json:"variance"`
}

// FinancialVariance handles GET /reports/financial-variance: per live
// project schedule, budget against summed ledger actuals.
func (h *ReportHandler) FinancialVariance(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("report", "financial_variance")

	page := engine.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	db := h.db.DB()

	var total int64
	if err := db.Model(&model.ProjectSchedule{}).
		Where("tenant_id = ? AND is_deleted = ?", identity.TenantID, false).
		Count(&total).Error; err != nil {
		return respondError(c, err, h.development)
	}

	var schedules []model.ProjectSchedule
	if err := db.Where("tenant_id = ? AND is_deleted = ?", identity.TenantID, false).
		Order("start_date DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&schedules).Error; err != nil {
		return respondError(c, err, h.development)
	}

	rows := make([]VarianceRow, 0, len(schedules))
	for _, schedule := range schedules {
		var actual float64
		err := db.Model(&model.LedgerEntry{}).
			Where("tenant_id = ? AND project_schedule_id = ?", identity.TenantID, schedule.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&actual).Error
		if err != nil {
			return respondError(c, err, h.development)
		}
		rows = append(rows, VarianceRow{
			ProjectScheduleID: schedule.ID,
			ProjectName:       schedule.ProjectName,
			Budget:            schedule.Budget,
			ActualTotal:       actual,
			Variance:          schedule.Budget - actual,
		})
	}

	meta := engine.MetaFor(page, total)
	return respondList(c, rows, &meta)
}

// PipelineRow aggregates proposals by status
type PipelineRow struct {
	Status      string  `json:"status"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// Pipeline handles GET /reports/pipeline
func (h *ReportHandler) Pipeline(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("report", "pipeline")

	rows := []PipelineRow{}
	err := h.db.DB().Model(&model.Proposal{}).
		Where("tenant_id = ?", identity.TenantID).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total_amount").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return respondError(c, err, h.development)
	}

	return respondData(c, http.StatusOK, "pipeline summary", rows)
}

// Deposits handles GET /reports/deposits. Deposit detection is a memo
// substring heuristic inherited from the accounting workflow, a business
// approximation rather than a ledger contract.
func (h *ReportHandler) Deposits(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondUnauthenticated(c)
	}
	prometheus.RecordEntityOperation("report", "deposits")

	page := engine.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
	db := h.db.DB()

	scoped := func() *gorm.DB {
		return db.Model(&model.LedgerEntry{}).
			Where("tenant_id = ?", identity.TenantID).
			Where("LOWER(memo) LIKE ?", "%deposit%")
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return respondError(c, err, h.development)
	}

	entries := []model.LedgerEntry{}
	err := scoped().
		Order("entry_date DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&entries).Error
	if err != nil {
		return respondError(c, err, h.development)
	}

	meta := engine.MetaFor(page, total)
	return respondList(c, entries, &meta)
}

// HealthCheck handles GET /health
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
