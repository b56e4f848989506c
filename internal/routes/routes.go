package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/agent"
	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/flow"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	ucBooking "github.com/BruksfildServices01/salon-scheduler/internal/usecase/booking"
)

// Deps are the singletons built at startup. DB is nil when the ledger is
// kept in memory.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB

	Catalog *catalog.Catalog
	Hours   domain.WeeklyHours

	Availability *ucBooking.GetAvailability
	Create       *ucBooking.CreateBooking
	ListByDate   *ucBooking.ListBookingsByDate

	Machine *flow.Machine
	Agent   *agent.Service
	Audit   *audit.Dispatcher
	Limiter *middleware.RateLimiter
	Health  map[string]handlers.Pinger
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// 🌍 GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.Config.AllowedOrigins()))
	if d.Limiter != nil {
		r.Use(d.Limiter.Middleware())
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	healthHandler := handlers.NewHealthHandler(d.Health)
	catalogHandler := handlers.NewCatalogHandler(d.Catalog, d.Hours)
	bookingHandler := handlers.NewBookingHandler(d.Availability, d.Create, d.ListByDate, d.Log)
	flowHandler := handlers.NewFlowHandler(d.Machine)
	authHandler := handlers.NewAuthHandler(d.Config, d.Audit)

	// ======================================================
	// 🔓 PUBLIC
	// ======================================================
	r.GET("/health", healthHandler.Check)
	r.GET("/catalog", catalogHandler.List)
	r.GET("/hours", catalogHandler.Hours)

	bookings := r.Group("/bookings")
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("/available-times/:date", bookingHandler.AvailableTimes)
	}

	if d.Agent != nil {
		agentHandler := handlers.NewAgentHandler(d.Agent, d.Log)
		r.POST("/agent/run", agentHandler.Run)
	}

	// ======================================================
	// 💬 CHAT FLOW
	// ======================================================
	fl := r.Group("/flow/:session_id")
	{
		fl.POST("/start", flowHandler.Start)
		fl.POST("/category", flowHandler.SelectCategory)
		fl.POST("/service", flowHandler.SelectService)
		fl.POST("/date", flowHandler.ProvideDate)
		fl.POST("/time", flowHandler.SelectTime)
		fl.POST("/name", flowHandler.Finalize)
		fl.POST("/cancel", flowHandler.Cancel)
		fl.POST("/message", flowHandler.Message)
		fl.GET("/explore", flowHandler.Explore)
		fl.GET("/hours", flowHandler.Hours)
	}

	// ======================================================
	// 🔐 ADMIN
	// ======================================================
	r.POST("/admin/login", authHandler.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuth(d.Config.JWTSecret))
	{
		admin.GET("/bookings", bookingHandler.ListByDate)

		if d.DB != nil {
			auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
