package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"procuretrack/internal/apierror"
	"procuretrack/internal/dto"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardHandler aggregates workload counters for the landing page.
// The counts change slowly relative to how often staff reload the page,
// so they are served from a short-lived Redis cache.
type DashboardHandler struct {
	prRepo       repository.PRRepository
	supplierRepo repository.SupplierRepository
	rfqRepo      repository.RFQRepository
	aoqRepo      repository.AOQRepository
	poRepo       repository.PORepository
	rdb          *redis.Client
}

func NewDashboardHandler(
	prRepo repository.PRRepository,
	supplierRepo repository.SupplierRepository,
	rfqRepo repository.RFQRepository,
	aoqRepo repository.AOQRepository,
	poRepo repository.PORepository,
	rdb *redis.Client,
) *DashboardHandler {
	return &DashboardHandler{
		prRepo:       prRepo,
		supplierRepo: supplierRepo,
		rfqRepo:      rfqRepo,
		aoqRepo:      aoqRepo,
		poRepo:       poRepo,
		rdb:          rdb,
	}
}

// Summary godoc
// @Summary Workload counters per status and stage
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Router /v1/dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	ctx := c.Request.Context()
	const cacheKey = "dashboard:summary"

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.DashboardResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	byStatus, err := h.prRepo.CountByStatus(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load dashboard"))
		return
	}

	resp := dto.DashboardResponse{
		PRsByStatus: byStatus,
		PRsByStage:  stageCounts(byStatus),
	}
	resp.Suppliers, _ = h.supplierRepo.Count(ctx)
	resp.RFQs, _ = h.rfqRepo.Count(ctx)
	resp.Abstracts, _ = h.aoqRepo.Count(ctx)
	resp.PurchaseOrders, _ = h.poRepo.Count(ctx)

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, dashboardCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

// stageCounts rolls per-status counts up into the coarse lifecycle stages.
func stageCounts(byStatus map[string]int64) map[string]int64 {
	stageOf := make(map[string]string)
	for _, s := range model.PreApprovalStatuses {
		stageOf[s] = "pre_approval"
	}
	for _, s := range model.SmallValueBranch {
		stageOf[s] = "small_value"
	}
	for _, s := range model.PublicBiddingBranch {
		stageOf[s] = "public_bidding"
	}
	for _, s := range model.ExceptionStatuses {
		stageOf[s] = "exception"
	}

	stages := make(map[string]int64)
	for status, n := range byStatus {
		stage, ok := stageOf[status]
		if !ok {
			stage = "other"
		}
		stages[stage] += n
	}
	return stages
}
