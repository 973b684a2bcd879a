package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/konveksi/backend-go/internal/api/handlers"
	"github.com/andresuchdata/konveksi/backend-go/internal/api/middleware"
	"github.com/andresuchdata/konveksi/backend-go/internal/service"
)

// Services are the backends mounted by NewRouter; a nil service leaves its routes unmounted
type Services struct {
	Ledger      *service.LedgerService
	Production  *service.ProductionService
	Requests    *service.RequestService
	Adjustments *service.AdjustmentService
	Sales       *service.SalesService
	Dashboard   *service.DashboardService
	Exports     *service.ExportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderUserName, middleware.HeaderUserRole},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))
	router.Use(middleware.Logger())
	router.Use(middleware.Actor())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	if services == nil {
		return router
	}

	if services.Ledger != nil {
		stockHandler := handlers.NewStockHandler(services.Ledger)
		apiGroup.GET("/materials", stockHandler.GetMaterials)
		apiGroup.GET("/finished-goods", stockHandler.GetFinishedGoods)
		stockGroup := apiGroup.Group("/stock")
		{
			stockGroup.GET("/history", stockHandler.GetHistory)
			stockGroup.POST("/changes", stockHandler.PostChanges)
		}
	}

	if services.Production != nil {
		productionHandler := handlers.NewProductionHandler(services.Production)
		apiGroup.POST("/hpp/calculate", productionHandler.Calculate)
		apiGroup.GET("/garments", productionHandler.GetGarmentTypes)
		reportGroup := apiGroup.Group("/production-reports")
		{
			reportGroup.GET("", productionHandler.GetReports)
			reportGroup.POST("", productionHandler.ConfirmProduction)
			reportGroup.GET("/:id", productionHandler.GetReport)
			reportGroup.POST("/:id/receive", productionHandler.ReceiveGoods)
		}
	}

	if services.Requests != nil {
		requestHandler := handlers.NewRequestHandler(services.Requests)
		requestGroup := apiGroup.Group("/production-requests")
		{
			requestGroup.GET("", requestHandler.GetRequests)
			requestGroup.POST("", requestHandler.CreateRequest)
			requestGroup.GET("/:id", requestHandler.GetRequest)
			requestGroup.POST("/:id/approve", requestHandler.ApproveRequest)
			requestGroup.POST("/:id/reject", requestHandler.RejectRequest)
			requestGroup.POST("/:id/fulfill", requestHandler.FulfillRequest)
		}
	}

	if services.Adjustments != nil {
		adjustmentHandler := handlers.NewAdjustmentHandler(services.Adjustments)
		adjustmentGroup := apiGroup.Group("/stock-adjustments")
		{
			adjustmentGroup.GET("", adjustmentHandler.GetAdjustments)
			adjustmentGroup.POST("", adjustmentHandler.SubmitAdjustment)
			adjustmentGroup.GET("/:id", adjustmentHandler.GetAdjustment)
			adjustmentGroup.POST("/:id/review", adjustmentHandler.ReviewAdjustment)
		}
	}

	if services.Sales != nil {
		salesHandler := handlers.NewSalesHandler(services.Sales)
		apiGroup.GET("/sales", salesHandler.GetSales)
		apiGroup.POST("/sales", salesHandler.RecordSale)
	}

	if services.Dashboard != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
		apiGroup.GET("/dashboard/summary", dashboardHandler.GetSummary)
	}

	if services.Exports != nil {
		exportHandler := handlers.NewExportHandler(services.Exports)
		exportGroup := apiGroup.Group("/exports")
		{
			exportGroup.GET("", exportHandler.GetUploads)
			exportGroup.POST("", exportHandler.UploadWorkbook)
			exportGroup.GET("/stock.xlsx", exportHandler.DownloadWorkbook)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
