package routes

import (
	"os"
	"strings"

	"fieldpro-backend/config"
	"fieldpro-backend/controllers"
	"fieldpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Customer routes
		customers := api.Group("/customers")
		{
			customers.POST("", controllers.CreateCustomer)
			customers.GET("", controllers.GetCustomers)
			customers.GET("/:id", controllers.GetCustomer)
			customers.PUT("/:id", controllers.UpdateCustomer)
			customers.DELETE("/:id", controllers.DeleteCustomer)
		}

		// Technician routes
		technicians := api.Group("/technicians")
		{
			technicians.POST("", controllers.CreateTechnician)
			technicians.GET("", controllers.GetTechnicians)
			technicians.GET("/:id", controllers.GetTechnician)
			technicians.PUT("/:id", controllers.UpdateTechnician)
			technicians.DELETE("/:id", controllers.DeleteTechnician)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.DELETE("/:id", controllers.DeleteAppointment)
		}

		// Bill routes
		bills := api.Group("/bills")
		{
			bills.POST("", controllers.CreateBill)
			bills.GET("", controllers.GetBills)
			bills.GET("/:id", controllers.GetBill)
			bills.PUT("/:id", controllers.UpdateBill)
			bills.DELETE("/:id", controllers.DeleteBill)

			bills.GET("/:id/line-items", controllers.GetLineItems)
			bills.POST("/:id/line-items", controllers.CreateLineItem)
		}

		// Line item routes
		lineItems := api.Group("/line-items")
		{
			lineItems.PUT("/:id", controllers.UpdateLineItem)
			lineItems.DELETE("/:id", controllers.DeleteLineItem)
		}

		// Photo routes
		photos := api.Group("/photos")
		{
			photos.POST("", controllers.UploadPhoto)
			photos.GET("", controllers.GetPhotos)
			photos.GET("/:id", controllers.GetPhoto)
			photos.DELETE("/:id", controllers.DeletePhoto)
		}

		// Settings routes
		api.GET("/settings", controllers.GetSettings)
		api.PUT("/settings", controllers.UpdateSettings)
		api.GET("/user-settings", controllers.GetUserSettings)
		api.PUT("/user-settings", controllers.UpdateUserSettings)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
