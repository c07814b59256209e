package handler

import (
	"net/http"

	"procuretrack/internal/apierror"
	"procuretrack/internal/dto"
	"procuretrack/internal/service"

	"github.com/gin-gonic/gin"
)

type BidsHandler struct{ svc service.BidService }

func NewBidsHandler(svc service.BidService) *BidsHandler { return &BidsHandler{svc: svc} }

// Submit godoc
// @Summary Record a supplier's bid on an RFQ
// @Tags bids
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ UUID"
// @Param body body dto.SubmitBidRequest true "Bid"
// @Success 201 {object} dto.BidResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/rfqs/{id}/bids [post]
func (h *BidsHandler) Submit(c *gin.Context) {
	rfqID, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.SubmitBidRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Submit(c.Request.Context(), actorFrom(c), rfqID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SaveLines replaces the per-item price entry of a bid.
func (h *BidsHandler) SaveLines(c *gin.Context) {
	bidID, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.SaveBidLinesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SaveLines(c.Request.Context(), actorFrom(c), bidID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BidsHandler) Withdraw(c *gin.Context) {
	bidID, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Withdraw(c.Request.Context(), actorFrom(c), bidID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BidsHandler) Get(c *gin.Context) {
	bidID, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), bidID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByRFQ returns all bids on an RFQ with completeness and responsiveness
// computed against the RFQ's required items.
func (h *BidsHandler) ListByRFQ(c *gin.Context) {
	rfqID, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByRFQ(c.Request.Context(), rfqID)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
