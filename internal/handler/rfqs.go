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

type RFQsHandler struct {
	svc        service.RFQService
	repo       repository.RFQRepository
	agencyName string
	pdfPath    string
}

func NewRFQsHandler(svc service.RFQService, repo repository.RFQRepository, agencyName, pdfPath string) *RFQsHandler {
	return &RFQsHandler{svc: svc, repo: repo, agencyName: agencyName, pdfPath: pdfPath}
}

// Create godoc
// @Summary Open an RFQ for a single purchase request
// @Tags rfqs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Purchase request UUID"
// @Param body body dto.CreateRFQRequest true "RFQ data"
// @Success 201 {object} dto.RFQResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/prs/{id}/rfq [post]
func (h *RFQsHandler) Create(c *gin.Context) {
	prID, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CreateRFQRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorFrom(c), prID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Consolidate godoc
// @Summary Merge several purchase requests into one consolidated RFQ
// @Tags rfqs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ConsolidateRequest true "PR ids in presentation order"
// @Success 201 {object} dto.RFQResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/rfqs/consolidate [post]
func (h *RFQsHandler) Consolidate(c *gin.Context) {
	var req dto.ConsolidateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Consolidate(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RFQsHandler) Get(c *gin.Context) {
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

func (h *RFQsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list RFQs"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF streams the printable RFQ form with blank price columns.
func (h *RFQsHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rfq, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("RFQ not found"))
		return
	}
	path, err := infra.GenerateRFQPDF(rfq, h.agencyName, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("PDF generation failed"))
		return
	}
	c.FileAttachment(path, "request_for_quotation.pdf")
}
