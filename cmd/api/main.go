package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"storage-valuation/internal/api/handlers"
	"storage-valuation/internal/api/middleware"
	"storage-valuation/internal/logging"
	"storage-valuation/internal/recorder"
)

func main() {
	_ = godotenv.Load()

	log := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	var rec recorder.Recorder = recorder.Noop{}
	if dbPath := os.Getenv("RECORDER_DB"); dbPath != "" {
		sqliteRec, err := recorder.NewSQLiteRecorder(dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", dbPath).Msg("open run recorder")
		}
		defer sqliteRec.Close()
		rec = sqliteRec
		log.Info().Str("path", dbPath).Msg("recording runs to sqlite")
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	valuationHandler := handlers.NewValuationHandler(rec, log)
	contractsHandler := handlers.NewContractsHandler(log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/valuation", valuationHandler.RunValuation)
		api.POST("/valuation/compare", valuationHandler.CompareValuations)

		api.GET("/policies", valuationHandler.ListPolicies)
		api.GET("/contracts", contractsHandler.ListContracts)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("starting API server")
	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
