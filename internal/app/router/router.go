package router

import (
	"time"

	"loan-case-tracker/internal/app"
	"loan-case-tracker/internal/app/handlers"
	"loan-case-tracker/internal/app/middleware"
	"loan-case-tracker/internal/service/interfaces"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
)

// Services is everything the HTTP layer serves. The case store backs the
// first three.
type Services struct {
	Cases        app.CaseService
	Config       app.ConfigService
	Roster       app.RosterService
	Analytics    app.AnalyticsService
	Suggestions  app.SuggestionService
	Repairs      app.RepairService
	RepairWriter interfaces.CaseChildWriter

	// MaxUploadBytes bounds a single request's files; zero disables it.
	MaxUploadBytes int64
}

func SetupRouter(serviceName string, corsOrigins []string, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(corsOrigins)))
	meter := otel.Meter(serviceName)
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.NewMetricMiddleware(meter))
	r.Use(middleware.AttachRequestDetails())

	healthCheckHandler := handlers.NewHealthCheckHandler()
	caseHandler := handlers.NewCaseHandler(svc.Cases, svc.MaxUploadBytes)
	documentHandler := handlers.NewDocumentHandler(svc.Cases, svc.MaxUploadBytes)
	configHandler := handlers.NewConfigHandler(svc.Config)
	officerHandler := handlers.NewOfficerHandler(svc.Roster)
	bankHandler := handlers.NewBankHandler(svc.Roster)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)
	suggestionHandler := handlers.NewSuggestionHandler(svc.Suggestions)
	repairHandler := handlers.NewRepairHandler(svc.Repairs, svc.RepairWriter)

	api := r.Group("/api/v1")
	api.GET("/health", healthCheckHandler.HealthCheck)

	api.GET("/cases", caseHandler.ListCases)
	api.POST("/cases", caseHandler.AddCase)
	api.POST("/cases/reload", caseHandler.Reload)
	api.GET("/cases/:id", caseHandler.GetCase)
	api.PATCH("/cases/:id/status", caseHandler.UpdateStatus)

	api.POST("/case-documents", documentHandler.Upload)

	api.GET("/configuration", configHandler.GetConfiguration)
	api.POST("/configuration/items", configHandler.AddItem)
	api.DELETE("/configuration/items/:category/:value", configHandler.DeleteItem)
	api.POST("/configuration/init", configHandler.Init)

	officers := api.Group("/officers")
	registerRoster(officers, officerHandler)
	officers.GET("/referenced", officerHandler.Referenced)
	registerRoster(api.Group("/banks"), bankHandler)

	api.GET("/analytics", analyticsHandler.Summary)
	api.POST("/suggestions", suggestionHandler.Suggest)

	api.GET("/repairs", repairHandler.Status)
	api.POST("/repairs/run", repairHandler.Run)

	return r
}

// corsConfig allows every origin when none are configured.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func registerRoster(g *gin.RouterGroup, h *handlers.RosterHandler) {
	g.GET("", h.List)
	g.POST("", h.Add)
	g.PUT("/:name", h.Update)
	g.DELETE("/:name", h.Remove)
}
