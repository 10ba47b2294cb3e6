package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/config"
	"hospital-management-server/internal/handlers"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/utils"
)

// NewRouter builds the engine with the global middleware and every route.
func NewRouter(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))

	// Configure CORS
	if cfg.Origin != "" {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = []string{cfg.Origin}
		corsConfig.AllowCredentials = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		router.Use(cors.New(corsConfig))
	}

	router.Use(utils.NewFlashStore(cfg.CookieSecret, !cfg.IsDevelopment()).Middleware())

	SetupRoutes(router, db, cfg, logger)
	return router
}

// getAndPost registers h for both GET and POST; action links may be followed
// directly or submitted from a form.
func getAndPost(r gin.IRoutes, path string, h ...gin.HandlerFunc) {
	r.GET(path, h...)
	r.POST(path, h...)
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, logger zerolog.Logger) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg, logger)
	dashboardHandler := handlers.NewDashboardHandler(db, logger)
	patientHandler := handlers.NewPatientHandler(db, logger)
	doctorHandler := handlers.NewDoctorHandler(db, logger)
	appointmentHandler := handlers.NewAppointmentHandler(db, logger)
	billHandler := handlers.NewBillHandler(db, cfg, logger)
	prescriptionHandler := handlers.NewPrescriptionHandler(db, logger)

	// Public routes (no session required)
	router.GET("/", authHandler.Home)
	router.GET("/app", authHandler.App)
	router.GET("/login", authHandler.LoginForm)
	router.POST("/login", authHandler.Login)
	getAndPost(router, "/logout", authHandler.Logout)

	// Staff routes
	private := router.Group("")
	private.Use(middleware.RequireSession(authHandler.Auth, cfg, logger))
	{
		private.GET("/dashboard", dashboardHandler.Show)

		patients := private.Group("/patients")
		{
			patients.GET("", patientHandler.List)
			patients.GET("/add", patientHandler.AddForm)
			patients.POST("/add", patientHandler.Add)
			patients.GET("/edit/:id", patientHandler.EditForm)
			patients.POST("/edit/:id", patientHandler.Edit)
			patients.GET("/view/:id", patientHandler.View)
			getAndPost(patients, "/delete/:id", patientHandler.Delete)
		}

		doctors := private.Group("/doctors")
		{
			doctors.GET("", doctorHandler.List)

			// Admin-only routes
			adminOnly := func(action access.Action) gin.HandlerFunc {
				return middleware.RequireAction(action, "/doctors", handlers.OnlyAdminsNotice)
			}
			doctors.GET("/add", adminOnly(access.CreateDoctor), doctorHandler.AddForm)
			doctors.POST("/add", adminOnly(access.CreateDoctor), doctorHandler.Add)
			doctors.GET("/edit/:id", adminOnly(access.EditDoctor), doctorHandler.EditForm)
			doctors.POST("/edit/:id", adminOnly(access.EditDoctor), doctorHandler.Edit)
			getAndPost(doctors, "/delete/:id", adminOnly(access.DeleteDoctor), doctorHandler.Delete)
		}

		appointments := private.Group("/appointments")
		{
			appointments.GET("", appointmentHandler.List)
			appointments.GET("/book", appointmentHandler.BookForm)
			appointments.POST("/book", appointmentHandler.Book)
			getAndPost(appointments, "/cancel/:id", appointmentHandler.Cancel)
			getAndPost(appointments, "/complete/:id", appointmentHandler.Complete)
		}

		bills := private.Group("/bills")
		{
			bills.GET("", billHandler.List)
			bills.GET("/generate", billHandler.GenerateForm)
			bills.POST("/generate", billHandler.Generate)
			getAndPost(bills, "/pay/:id", billHandler.Pay)
			bills.GET("/receipt/:id", billHandler.Receipt)
		}

		prescriptions := private.Group("/prescriptions")
		{
			prescriptions.GET("", prescriptionHandler.List)
			prescriptions.GET("/add", prescriptionHandler.AddForm)
			prescriptions.POST("/add", prescriptionHandler.Add)
			prescriptions.GET("/view/:id", prescriptionHandler.View)
		}
	}

	// Simple health check endpoint
	router.GET("/health", handlers.Health(db))
}
