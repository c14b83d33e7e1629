package cmd

import (
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"ytgrab/config"
	"ytgrab/handlers"
	"ytgrab/middleware"
	"ytgrab/services"
	"ytgrab/websocket"
)

// StartWebServer starts the web server
func StartWebServer(cfg *config.Config) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	transcoder := services.NewTranscoder(cfg)
	downloader := services.NewDownloader(cfg, transcoder)

	jobQueue := services.NewJobQueue(cfg.MaxWorkers, hub, downloader)
	jobQueue.Start()

	fileService := services.NewFileService()

	// Initialize handlers
	downloadHandler := handlers.NewDownloadHandler(jobQueue, hub)
	fileHandler := handlers.NewFileHandler(fileService, cfg)
	formatHandler := handlers.NewFormatHandler()
	healthHandler := handlers.NewHealthHandler(cfg)
	settingsHandler := handlers.NewSettingsHandler(cfg)
	uiHandler := handlers.NewUIHandler()

	// Setup router
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply middleware
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Logging())

	// Setup routes
	setupRoutes(r, downloadHandler, fileHandler, formatHandler, healthHandler, settingsHandler, uiHandler)

	portStr := strconv.Itoa(cfg.Port)
	log.Printf("ytgrab web server starting on port %s", portStr)
	log.Printf("Output location: %s", cfg.OutputLocation())
	if err := r.Run(":" + portStr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRoutes configures all the HTTP routes
func setupRoutes(r *gin.Engine, downloadHandler *handlers.DownloadHandler, fileHandler *handlers.FileHandler, formatHandler *handlers.FormatHandler, healthHandler *handlers.HealthHandler, settingsHandler *handlers.SettingsHandler, uiHandler *handlers.UIHandler) {
	// Browser form
	r.GET("/", uiHandler.Index)

	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// Supported kind/format/quality combinations
		apiGroup.GET("/formats", formatHandler.ListFormats)

		// Download Management Endpoints
		downloadsGroup := apiGroup.Group("/downloads")
		{
			downloadsGroup.POST("", downloadHandler.QueueDownload)
			downloadsGroup.GET("", downloadHandler.GetAllJobs)
			downloadsGroup.GET("/:jobId", downloadHandler.GetJob)
			downloadsGroup.DELETE("/:jobId", downloadHandler.CancelJob)
		}

		// WebSocket endpoints for real-time progress
		wsGroup := apiGroup.Group("/ws")
		{
			// WebSocket endpoint for specific job progress
			wsGroup.GET("/downloads/:jobId", downloadHandler.HandleWebSocketConnection)

			// WebSocket endpoint for all downloads progress
			wsGroup.GET("/downloads", downloadHandler.HandleWebSocketAllConnection)
		}

		// File discovery and retrieval endpoints
		apiGroup.GET("/files", fileHandler.ListFiles)
		apiGroup.GET("/files/download/*filepath", fileHandler.DownloadFile)

		// Settings endpoints
		apiGroup.GET("/settings", settingsHandler.GetSettings)
		apiGroup.POST("/settings", settingsHandler.UpdateSettings)
	}
}
