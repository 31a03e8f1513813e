package main

import (
	"log"
	"net/http"

	controller "github.com/turman-legal/tls-ediscovery/controller"
	"github.com/turman-legal/tls-ediscovery/initializers"
	middleware "github.com/turman-legal/tls-ediscovery/middleware"
	service "github.com/turman-legal/tls-ediscovery/service"

	"github.com/gin-gonic/gin"
)

func init() {
	if err := initializers.LoadEnv(); err != nil {
		log.Printf("No .env file loaded: %s", err)
	}
	if err := initializers.ConnectDB(); err != nil {
		log.Fatalf("[CRITICAL] Failed to initialize database connection: %s", err)
	}
	if err := initializers.Migrate(); err != nil {
		log.Fatalf("[CRITICAL] Failed to run database migrations: %s", err)
	}
}

func main() {
	docService, err := service.NewDocumentService(initializers.DB)
	if err != nil {
		log.Fatalf("Failed to initialize document service: %s", err)
	}

	docController := controller.NewDocumentController(docService)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	// Global rate limiter for most routes
	router.Use(middleware.GlobalRateLimiter.Limit())

	api := router.Group("/api")

	// Matters
	api.GET("/matters", docController.GetMatters)
	api.POST("/matters", docController.CreateMatter)

	// Documents: uploads and chat burn blob writes and AI calls, so they get
	// the strict limiter.
	api.POST("/upload",
		middleware.StrictRateLimiter.Limit(),
		docController.UploadDocument)
	api.GET("/documents", docController.GetDocuments)
	api.DELETE("/documents/:id", docController.DeleteDocument)
	api.POST("/documents/:id/extract-text", docController.CompleteTextExtraction)
	api.GET("/document/:id", docController.StreamDocument)

	// Classifications
	api.GET("/classifications", docController.GetClassificationKinds)
	api.POST("/documents/:id/classifications", docController.AttachClassification)
	api.GET("/documents/:id/classifications", docController.GetDocumentClassifications)

	// Chat
	api.POST("/chat",
		middleware.StrictRateLimiter.Limit(),
		docController.Chat)

	// Reports
	api.POST("/reports/privilege-log", docController.PrivilegeLogReport)
	api.POST("/reports/timeline", docController.TimelineReport)
	api.POST("/reports/hot-documents", docController.HotDocumentsReport)

	// Notes
	api.GET("/notes", docController.GetNotes)
	api.POST("/notes", docController.CreateNote)

	// Search
	api.GET("/search", docController.SearchDocuments)

	// Healthcheck endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.Run(":8080")
}
