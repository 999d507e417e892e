// Package router assembles the gin engine serving the MarketPulse API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "marketpulse/internal/docs" // swagger docs
	"marketpulse/internal/handlers"
	"marketpulse/internal/middleware"
	"marketpulse/internal/services"
	"marketpulse/internal/validator"
)

// Deps are the services the routes are served from.
type Deps struct {
	Stocks      services.StockServicer
	Checkpoints services.CheckpointServicer
	Updater     handlers.StockUpdater
}

// New returns an engine with middleware, docs, health and the v1 routes.
func New(deps Deps) *gin.Engine {
	validator.Register()

	stockHandler := handlers.NewStockHandler(deps.Stocks)
	updateHandler := handlers.NewUpdateHandler(deps.Updater, deps.Checkpoints)

	router := gin.New()
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	stocks := v1.Group("/stocks")
	stocks.GET("", stockHandler.ListStocks)
	stocks.POST("/update", updateHandler.UpdateStocks)
	stocks.GET("/:symbol", stockHandler.GetStock)

	v1.GET("/stock-indexes", stockHandler.ListIndexes)
	v1.GET("/stock-countries", stockHandler.ListCountries)
	v1.GET("/update-status", updateHandler.GetUpdateStatus)
	v1.GET("/update-history", updateHandler.ListUpdateHistory)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
