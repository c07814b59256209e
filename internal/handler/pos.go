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

type POsHandler struct {
	svc        service.POService
	repo       repository.PORepository
	agencyName string
	pdfPath    string
}

func NewPOsHandler(svc service.POService, repo repository.PORepository, agencyName, pdfPath string) *POsHandler {
	return &POsHandler{svc: svc, repo: repo, agencyName: agencyName, pdfPath: pdfPath}
}

func (h *POsHandler) Get(c *gin.Context) {
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

func (h *POsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list purchase orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update fills in delivery details on an issued purchase order.
func (h *POsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePORequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateDelivery(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF streams the printable purchase order form.
func (h *POsHandler) PDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	po, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Purchase order not found"))
		return
	}
	path, err := infra.GeneratePOPDF(po, h.agencyName, h.pdfPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("PDF generation failed"))
		return
	}
	c.FileAttachment(path, "purchase_order.pdf")
}
