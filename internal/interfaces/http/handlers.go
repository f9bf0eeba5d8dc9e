package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/project-approval/internal/domain/approval"
	"github.com/garyjia/project-approval/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response represents a standard JSON response. Retry is set on conflicts
// caused by concurrent edits, where re-reading and repeating the request is
// expected to succeed.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Retry   bool        `json:"retry,omitempty"`
}

// statusFor maps the domain error taxonomy to HTTP status codes so a
// client can distinguish "fix your input" from "not authorized" from
// "try again, someone else just voted"
func statusFor(err error) int {
	switch {
	case errors.Is(err, approval.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, approval.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, approval.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, approval.ErrInvalidState),
		errors.Is(err, approval.ErrInvalidTransition),
		errors.Is(err, approval.ErrAlreadyVoted),
		errors.Is(err, approval.ErrPreconditionFailed),
		errors.Is(err, approval.ErrConcurrentModification):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(status, Response{
		Success: false,
		Error:   err.Error(),
		Retry:   errors.Is(err, approval.ErrConcurrentModification),
	})
}

func (h *Handlers) ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func projectID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid project id"})
		return 0, false
	}
	return id, true
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	h.ok(c, http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --- Projects ---

// CreateProjectRequest is the payload for POST /api/projects
type CreateProjectRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	RequestedAmount int64  `json:"requested_amount"`
	ReviewerID      *int64 `json:"reviewer_id"`
	FinalApproverID *int64 `json:"final_approver_user_id"`
}

// CreateProject handles POST /api/projects
func (h *Handlers) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	project := &entity.Project{
		Name:                req.Name,
		Description:         req.Description,
		RequestedAmount:     req.RequestedAmount,
		ReviewerID:          req.ReviewerID,
		FinalApproverUserID: req.FinalApproverID,
	}

	created, err := h.services.Project.Create(c.Request.Context(), actorID(c), project)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, created)
}

// GetProject handles GET /api/projects/:id
func (h *Handlers) GetProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.services.Project.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, project)
}

// ListProjects handles GET /api/projects
func (h *Handlers) ListProjects(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	projects, err := h.services.Project.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, projects)
}

// UpdateProjectRequest is the payload for PUT /api/projects/:id
type UpdateProjectRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	RequestedAmount int64  `json:"requested_amount"`
	ReviewerID      *int64 `json:"reviewer_id"`
	FinalApproverID *int64 `json:"final_approver_user_id"`
}

// UpdateProject handles PUT /api/projects/:id (drafts only)
func (h *Handlers) UpdateProject(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	project, err := h.services.Project.UpdateDraft(c.Request.Context(), actorID(c), id,
		req.Name, req.Description, req.RequestedAmount, req.ReviewerID, req.FinalApproverID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, project)
}

// SetPhase handles PUT /api/projects/:id/phase
func (h *Handlers) SetPhase(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req struct {
		Phase string `json:"phase" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	if err := h.services.Project.SetPhase(c.Request.Context(), actorID(c), id, req.Phase); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, nil)
}

// --- Approval workflow ---

type commentRequest struct {
	Comment string `json:"comment"`
}

// Submit handles POST /api/projects/:id/submit
func (h *Handlers) Submit(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.services.Approval.Submit(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, project)
}

// ReviewerApprove handles POST /api/projects/:id/reviewer-approve
func (h *Handlers) ReviewerApprove(c *gin.Context) {
	h.vote(c, h.services.Approval.ReviewerApprove)
}

// ReviewerReject handles POST /api/projects/:id/reviewer-reject
func (h *Handlers) ReviewerReject(c *gin.Context) {
	h.vote(c, h.services.Approval.ReviewerReject)
}

// FinalApprove handles POST /api/projects/:id/final-approve
func (h *Handlers) FinalApprove(c *gin.Context) {
	h.vote(c, h.services.Approval.FinalApprove)
}

// FinalReject handles POST /api/projects/:id/final-reject
func (h *Handlers) FinalReject(c *gin.Context) {
	h.vote(c, h.services.Approval.FinalReject)
}

func (h *Handlers) vote(c *gin.Context, op func(ctx context.Context, projectID, actorID int64, comment string) error) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req commentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}
	}

	if err := op(c.Request.Context(), id, actorID(c), req.Comment); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, nil)
}

// Resubmit handles POST /api/projects/:id/resubmit
func (h *Handlers) Resubmit(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req struct {
		Note string `json:"note" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	if err := h.services.Approval.Resubmit(c.Request.Context(), id, actorID(c), req.Note); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, nil)
}

// ApprovalStatus handles GET /api/projects/:id/approval-status
func (h *Handlers) ApprovalStatus(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	view, err := h.services.Approval.ApprovalStatus(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

// --- Budget ledger ---

// BudgetEntryRequest is the payload for PUT /api/projects/:id/budgets
type BudgetEntryRequest struct {
	Year        int   `json:"year" binding:"required"`
	Month       int   `json:"month" binding:"required"`
	OpexBudget  int64 `json:"opex_budget"`
	CapexBudget int64 `json:"capex_budget"`
	OpexUsed    int64 `json:"opex_used"`
	CapexUsed   int64 `json:"capex_used"`
}

// UpsertBudget handles PUT /api/projects/:id/budgets
func (h *Handlers) UpsertBudget(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req BudgetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	entry := &entity.BudgetEntry{
		ProjectID:   id,
		Year:        req.Year,
		Month:       req.Month,
		OpexBudget:  req.OpexBudget,
		CapexBudget: req.CapexBudget,
		OpexUsed:    req.OpexUsed,
		CapexUsed:   req.CapexUsed,
	}

	if err := h.services.Budget.Upsert(c.Request.Context(), actorID(c), entry); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, entry)
}

// DeleteBudget handles DELETE /api/projects/:id/budgets/:year/:month
func (h *Handlers) DeleteBudget(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	year, err1 := strconv.Atoi(c.Param("year"))
	month, err2 := strconv.Atoi(c.Param("month"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid year/month"})
		return
	}

	if err := h.services.Budget.Delete(c.Request.Context(), actorID(c), id, year, month); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, nil)
}

// BudgetSummary handles GET /api/projects/:id/budgets/summary
func (h *Handlers) BudgetSummary(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	summary, err := h.services.Budget.Summary(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, summary)
}

// ExportBudget handles GET /api/projects/:id/budgets/export
func (h *Handlers) ExportBudget(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	project, err := h.services.Project.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	summary, err := h.services.Budget.Summary(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	data, err := h.services.BudgetExport.Export(project, summary)
	if err != nil {
		h.fail(c, err)
		return
	}

	filename := "budget-" + strconv.FormatInt(id, 10) + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// --- KPI reports ---

// KPIReportRequest is the payload for POST /api/projects/:id/kpi-reports
type KPIReportRequest struct {
	ReportType          string     `json:"report_type" binding:"required"`
	VerificationContent string     `json:"verification_content"`
	MetricsPayload      string     `json:"metrics_payload"`
	NumericResult       *float64   `json:"numeric_result"`
	PlannedDate         *time.Time `json:"planned_date"`
	PlannedBudget       *int64     `json:"planned_budget"`
	PeriodStart         *time.Time `json:"period_start"`
	PeriodEnd           *time.Time `json:"period_end"`
}

// SaveKPIReport handles POST /api/projects/:id/kpi-reports
func (h *Handlers) SaveKPIReport(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req KPIReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	kpiReport := &entity.KPIReport{
		ProjectID:           id,
		ReportType:          entity.ReportType(req.ReportType),
		VerificationContent: req.VerificationContent,
		MetricsPayload:      req.MetricsPayload,
		NumericResult:       req.NumericResult,
		PlannedDate:         req.PlannedDate,
		PlannedBudget:       req.PlannedBudget,
		PeriodStart:         req.PeriodStart,
		PeriodEnd:           req.PeriodEnd,
	}

	if err := h.services.KPI.Save(c.Request.Context(), actorID(c), kpiReport); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, kpiReport)
}

// ListKPIReports handles GET /api/projects/:id/kpi-reports
func (h *Handlers) ListKPIReports(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	reports, err := h.services.KPI.List(c.Request.Context(), actorID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, reports)
}

// RequiredKPITypes handles GET /api/projects/:id/kpi-reports/required
func (h *Handlers) RequiredKPITypes(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	view, err := h.services.KPI.RequiredTypes(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, view)
}

// --- Document analysis ---

// AnalyzeDocument handles POST /api/projects/:id/analyze
func (h *Handlers) AnalyzeDocument(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req struct {
		DocumentPath string `json:"document_path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	result, err := h.services.Analysis.Analyze(c.Request.Context(), actorID(c), id, req.DocumentPath)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, result)
}
