package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"invoice-backend/internal/config"
	"invoice-backend/internal/handlers"
	"invoice-backend/internal/repository"
	"invoice-backend/internal/service"
)

func Register(router *gin.Engine, db *gorm.DB, cfg config.Config, log *logrus.Logger) {
	corsConfig := cors.DefaultConfig()
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "invoice-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	invoiceRepo := repository.NewInvoiceRepository(db, cfg.QueryTimeout)
	invoiceService := service.NewInvoiceService(db, invoiceRepo)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, log)

	api := router.Group("/api")
	{
		api.POST("/invoice", invoiceHandler.Create)
		api.GET("/invoice", invoiceHandler.List)
		api.GET("/invoice/:id", invoiceHandler.Get)
		api.PUT("/invoice/:id", invoiceHandler.Update)
		api.DELETE("/invoice/:id", invoiceHandler.Delete)
	}
}
