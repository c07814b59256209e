package router

import (
	"time"

	"procuretrack/internal/config"
	"procuretrack/internal/handler"
	"procuretrack/internal/middleware"
	"procuretrack/internal/model"
	"procuretrack/internal/repository"
	"procuretrack/internal/service"
	"procuretrack/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	prRepo := repository.NewPRRepository(db)
	rfqRepo := repository.NewRFQRepository(db)
	bidRepo := repository.NewBidRepository(db)
	aoqRepo := repository.NewAOQRepository(db)
	poRepo := repository.NewPORepository(db)
	logRepo := repository.NewActionLogRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	supplierSvc := service.NewSupplierService(supplierRepo)
	prSvc := service.NewPRService(prRepo, logRepo)
	workflowSvc := service.NewWorkflowService(prRepo, aoqRepo, logRepo, dispatcher)
	rfqSvc := service.NewRFQService(rfqRepo, prRepo, logRepo)
	bidSvc := service.NewBidService(bidRepo, rfqRepo, supplierRepo, logRepo)
	aoqSvc := service.NewAOQService(aoqRepo, rfqRepo, bidRepo, poRepo, prRepo, logRepo, dispatcher)
	poSvc := service.NewPOService(poRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	prsH := handler.NewPRsHandler(prSvc, workflowSvc, prRepo, cfg.AgencyName, cfg.PDFStoragePath)
	rfqsH := handler.NewRFQsHandler(rfqSvc, rfqRepo, cfg.AgencyName, cfg.PDFStoragePath)
	bidsH := handler.NewBidsHandler(bidSvc)
	aoqsH := handler.NewAOQsHandler(aoqSvc, aoqRepo, cfg.AgencyName)
	posH := handler.NewPOsHandler(poSvc, poRepo, cfg.AgencyName, cfg.PDFStoragePath)
	dashboardH := handler.NewDashboardHandler(prRepo, supplierRepo, rfqRepo, aoqRepo, poRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleRequisitioner, model.RoleProcurement, model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleProcurement, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Purchase requests — requisitioners draft and submit their own;
		// numbering, routing and status moves belong to the procurement unit.
		v1.POST("/prs", anyRole, prsH.Create)
		v1.GET("/prs", anyRole, prsH.List)
		v1.GET("/prs/:id", anyRole, prsH.Get)
		v1.PUT("/prs/:id", anyRole, prsH.Update)
		v1.POST("/prs/:id/submit", anyRole, prsH.Submit)
		v1.GET("/prs/:id/pdf", anyRole, prsH.PDF)
		v1.POST("/prs/:id/number", staff, prsH.AssignNumber)
		v1.POST("/prs/:id/status", staff, prsH.UpdateStatus)
		v1.GET("/prs/:id/status/check", staff, prsH.CheckTransition)

		// Quotations
		v1.POST("/prs/:id/rfq", staff, rfqsH.Create)
		rfqs := v1.Group("/rfqs", staff)
		{
			rfqs.POST("/consolidate", rfqsH.Consolidate)
			rfqs.GET("", rfqsH.List)
			rfqs.GET("/:id", rfqsH.Get)
			rfqs.GET("/:id/pdf", rfqsH.PDF)
			rfqs.POST("/:id/bids", bidsH.Submit)
			rfqs.GET("/:id/bids", bidsH.ListByRFQ)
			rfqs.POST("/:id/aoq", aoqsH.Build)
		}

		bids := v1.Group("/bids", staff)
		{
			bids.GET("/:id", bidsH.Get)
			bids.PUT("/:id/lines", bidsH.SaveLines)
			bids.POST("/:id/withdraw", bidsH.Withdraw)
		}

		// Abstracts of quotation
		aoqs := v1.Group("/aoqs", staff)
		{
			aoqs.GET("/:id", aoqsH.Get)
			aoqs.GET("/:id/tabulation", aoqsH.Tabulation)
			aoqs.PUT("/lines/:id", aoqsH.UpdateLine)
			aoqs.POST("/:id/verify", aoqsH.Verify)
			aoqs.POST("/:id/award", aoqsH.Award)
			aoqs.GET("/:id/export/csv", aoqsH.ExportCSV)
			aoqs.GET("/:id/export/xlsx", aoqsH.ExportXLSX)
		}

		// Purchase orders
		pos := v1.Group("/pos", staff)
		{
			pos.GET("", posH.List)
			pos.GET("/:id", posH.Get)
			pos.PUT("/:id", posH.Update)
			pos.GET("/:id/pdf", posH.PDF)
		}

		// Suppliers — procurement maintains the registry; deletion is admin only
		suppliers := v1.Group("/suppliers", staff)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", adminOnly, suppliersH.Delete)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}

		v1.GET("/dashboard", staff, dashboardH.Summary)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
