package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mediqore/hospital-api/internal/handlers"
	"github.com/mediqore/hospital-api/internal/middleware"
	"github.com/mediqore/hospital-api/internal/models"
)

// New builds the engine and wires the full route table. Every protected
// route declares its role allow-list here, once.
func New(h *handlers.Handler, users middleware.UserSource, corsOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)
	}

	r.GET("/api/health", h.Health)

	api := r.Group("/api")
	api.Use(middleware.Authenticate(users))
	{
		api.GET("/auth/me", h.Me)
		api.PUT("/auth/me", h.UpdateMe)

		staff := []string{models.RoleAdmin, models.RoleReception}
		clinical := []string{models.RoleAdmin, models.RoleReception, models.RoleDoctor}
		everyone := []string{models.RoleAdmin, models.RoleReception, models.RoleDoctor, models.RolePatient}

		patients := api.Group("/patients")
		{
			patients.POST("", middleware.RequireRoles(staff...), h.CreatePatient)
			patients.GET("", middleware.RequireRoles(clinical...), h.ListPatients)
			patients.GET("/search", middleware.RequireRoles(clinical...), h.SearchPatients)
			patients.GET("/:id", middleware.RequireRoles(everyone...), h.GetPatient)
			patients.PUT("/:id", middleware.RequireRoles(staff...), h.UpdatePatient)
			patients.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.DeletePatient)
		}

		doctors := api.Group("/doctors")
		{
			doctors.POST("", middleware.RequireRoles(models.RoleAdmin), h.CreateDoctor)
			doctors.GET("", middleware.RequireRoles(everyone...), h.ListDoctors)
			doctors.GET("/:id", middleware.RequireRoles(everyone...), h.GetDoctor)
			doctors.PUT("/:id", middleware.RequireRoles(models.RoleAdmin), h.UpdateDoctor)
			doctors.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.DeleteDoctor)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", middleware.RequireRoles(staff...), h.CreateAppointment)
			appointments.GET("", middleware.RequireRoles(clinical...), h.ListAppointments)
			appointments.GET("/patient/:patientId", middleware.RequireRoles(clinical...), h.ListAppointmentsByPatient)
			appointments.GET("/doctor/:doctorId", middleware.RequireRoles(staff...), h.ListAppointmentsByDoctor)
			appointments.GET("/:id", middleware.RequireRoles(everyone...), h.GetAppointment)
			appointments.PUT("/:id", middleware.RequireRoles(clinical...), h.UpdateAppointment)
			appointments.PATCH("/:id/notify", middleware.RequireRoles(staff...), h.NotifyAppointment)
			appointments.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.DeleteAppointment)
		}

		reports := api.Group("/reports")
		{
			medical := middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor)
			reports.POST("", medical, h.CreateReport)
			reports.GET("", medical, h.ListReports)
			reports.GET("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleDoctor, models.RolePatient), h.GetReport)
			reports.GET("/:id/pdf", medical, h.ReportDocument)
			reports.PUT("/:id", medical, h.UpdateReport)
			reports.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.DeleteReport)
		}

		bills := api.Group("/bills")
		{
			bills.POST("", middleware.RequireRoles(staff...), h.CreateBill)
			bills.GET("", middleware.RequireRoles(staff...), h.ListBills)
			bills.GET("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleReception, models.RolePatient), h.GetBill)
			bills.GET("/:id/pdf", middleware.RequireRoles(staff...), h.BillDocument)
			bills.PUT("/:id", middleware.RequireRoles(staff...), h.UpdateBill)
			bills.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), h.DeleteBill)
		}

		api.GET("/admin/analytics", middleware.RequireRoles(models.RoleAdmin), h.Analytics)
	}

	return r
}
