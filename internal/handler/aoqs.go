package handler

import (
	"bytes"
	"net/http"

	"procuretrack/internal/apierror"
	"procuretrack/internal/dto"
	"procuretrack/internal/infra"
	"procuretrack/internal/repository"
	"procuretrack/internal/service"

	"github.com/gin-gonic/gin"
)

type AOQsHandler struct {
	svc        service.AOQService
	repo       repository.AOQRepository
	agencyName string
}

func NewAOQsHandler(svc service.AOQService, repo repository.AOQRepository, agencyName string) *AOQsHandler {
	return &AOQsHandler{svc: svc, repo: repo, agencyName: agencyName}
}

// Build godoc
// @Summary Build the abstract of quotation from the RFQ's bids
// @Tags aoqs
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ UUID"
// @Success 201 {object} dto.AOQResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/rfqs/{id}/aoq [post]
func (h *AOQsHandler) Build(c *gin.Context) {
	rfqID, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.BuildFromBids(c.Request.Context(), actorFrom(c), rfqID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AOQsHandler) Get(c *gin.Context) {
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

// Tabulation godoc
// @Summary Per-supplier totals, item-level lowest responsive bid, winner and savings
// @Tags aoqs
// @Produce json
// @Security BearerAuth
// @Param id path string true "AOQ UUID"
// @Success 200 {object} dto.TabulationResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/aoqs/{id}/tabulation [get]
func (h *AOQsHandler) Tabulation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Tabulate(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateLine overrides a line's responsive flag or corrects its price.
func (h *AOQsHandler) UpdateLine(c *gin.Context) {
	lineID, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AOQLineUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateLine(c.Request.Context(), actorFrom(c), lineID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AOQsHandler) Verify(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Verify(c.Request.Context(), actorFrom(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Award godoc
// @Summary Award the abstract to a supplier and issue the purchase order
// @Tags aoqs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "AOQ UUID"
// @Param body body dto.AwardRequest true "Winning supplier"
// @Success 201 {object} dto.POResponse
// @Failure 400 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/aoqs/{id}/award [post]
func (h *AOQsHandler) Award(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AwardRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Award(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ExportCSV streams the abstract as a CSV attachment.
func (h *AOQsHandler) ExportCSV(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request.Context(), id, &buf); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="abstract.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportXLSX streams the abstract as an Excel workbook.
func (h *AOQsHandler) ExportXLSX(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	aoq, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Abstract of quotation not found"))
		return
	}
	f, err := infra.BuildAOQWorkbook(aoq, h.agencyName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Workbook generation failed"))
		return
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Workbook generation failed"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="abstract.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
