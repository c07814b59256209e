package handler

import (
	"net/http"

	"procuretrack/internal/apierror"
	"procuretrack/internal/dto"
	"procuretrack/internal/infra"
	"procuretrack/internal/repository"
	"procuretrack/internal/service"

	"github.com/gin-gonic/gin"
)

type PRsHandler struct {
	svc         service.PRService
	workflowSvc service.WorkflowService
	repo        repository.PRRepository
	agencyName  string
	pdfPath     string
}

func NewPRsHandler(svc service.PRService, workflowSvc service.WorkflowService, repo repository.PRRepository, agencyName, pdfPath string) *PRsHandler {
	return &PRsHandler{svc: svc, workflowSvc: workflowSvc, repo: repo, agencyName: agencyName, pdfPath: pdfPath}
}

// Create godoc
// @Summary Create a purchase request draft
// @Tags purchase-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SavePRRequest true "Purchase request"
// @Success 201 {object} dto.PRResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/prs [post]
func (h *PRsHandler) Create(c *gin.Context) {
	var req dto.SavePRRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PRsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.SavePRRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PRsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary List purchase requests
// @Tags purchase-requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page   query int    false "Page (default 1)"
// @Param limit  query int    false "Rows per page (default 50)"
// @Success 200 {object} dto.PRListResponse
// @Router /v1/prs [get]
func (h *PRsHandler) List(c *gin.Context) {
	var filter dto.PRFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid query: "+err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list purchase requests"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AssignNumber sets the official PR number (procurement staff only).
func (h *PRsHandler) AssignNumber(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AssignPRNumberRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AssignNumber(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Submit moves a draft into the verification queue.
func (h *PRsHandler) Submit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.SubmitForVerification(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateStatus executes a structured status-change command.
func (h *PRsHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.workflowSvc.UpdateStatus(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckTransition reports whether the PR could move to ?target= right now.
func (h *PRsHandler) CheckTransition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	target := c.Query("target")
	if target == "" {
		c.JSON(http.StatusBadRequest, apierror.New("target query parameter is required"))
		return
	}
	allowed, reason, err := h.workflowSvc.CheckTransition(c.Request.Context(), id, target)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed, "reason": reason})
}

// PDF streams the printable PR preview form.
func (h *PRsHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pr, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Purchase request not found"))
		return
	}
	path, err := infra.GeneratePRPDF(pr, h.agencyName, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("PDF generation failed"))
		return
	}
	c.FileAttachment(path, "purchase_request.pdf")
}
