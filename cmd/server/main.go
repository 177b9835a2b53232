package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"invoice-backend/internal/config"
	"invoice-backend/internal/db"
	"invoice-backend/internal/logger"
	"invoice-backend/internal/middleware"
	"invoice-backend/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logg := logger.New(cfg.LogLevel)

	database, err := db.Open(cfg)
	if err != nil {
		logg.Fatalf("db error: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		logg.Fatalf("db error: %v", err)
	}
	defer sqlDB.Close()

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.RequestLogger(logg), gin.Recovery())

	routes.Register(router, database, cfg, logg)

	logg.WithField("addr", cfg.Addr).Info("starting server")
	if err := router.Run(cfg.Addr); err != nil {
		logg.Fatalf("server error: %v", err)
	}
}
