package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"insight-engine/internal/categorizer"
	"insight-engine/internal/client"
	"insight-engine/internal/config"
	"insight-engine/internal/handler"
	"insight-engine/internal/middleware"
	"insight-engine/internal/parser"
	"insight-engine/internal/repository"
	"insight-engine/internal/service"
	"insight-engine/pkg/logger"
)

// @title Statement Insight API
// @version 1.0
// @description API for ingesting bank statements, computing financial-health insights and running credit checks

// @contact.name API Support
// @contact.email support@insight-engine.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.App.LogLevel)
	logger.GetLogger().Info("Starting Statement Insight Service")

	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	logger.GetLogger().Info("Database connection established")

	// Repositories
	statementRepo := repository.NewStatementRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	insightRepo := repository.NewInsightRepository(db)

	// Ingestion hands completed statements to the insight stage here
	ready := make(chan uuid.UUID, 64)

	// Services
	rowParser := parser.NewRowParser(categorizer.New())
	ingestionService := service.NewIngestionService(statementRepo, txRepo, rowParser, cfg.App.BatchSize, ready)
	insightService := service.NewInsightService(statementRepo, txRepo, insightRepo)
	creditService := service.NewCreditCheckService(client.NewCreditClient(cfg.Bureau))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go insightService.Run(ctx, ready)

	// Handlers
	statementHandler := handler.NewStatementHandler(ingestionService, insightService)
	creditHandler := handler.NewCreditCheckHandler(creditService)

	router := setupRouter(statementHandler, creditHandler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.GetLogger().WithField("address", addr).Info("Server starting")

	if err := router.Run(addr); err != nil {
		logger.GetLogger().WithError(err).Fatal("Failed to start server")
	}
}

func connectDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func setupRouter(statementHandler *handler.StatementHandler, creditHandler *handler.CreditCheckHandler) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		statements := v1.Group("/statements")
		{
			statements.POST("", statementHandler.UploadStatement)
			statements.GET("/:statement_id", statementHandler.GetStatement)
			statements.GET("/:statement_id/insights", statementHandler.GetInsights)
		}

		v1.POST("/credit-checks", creditHandler.CheckCredit)
	}

	return router
}
