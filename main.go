package main

import (
	"fmt"
	"log"
	"os"

	"fieldpro-backend/config"
	"fieldpro-backend/controllers"
	"fieldpro-backend/models"
	"fieldpro-backend/routes"
	"fieldpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Customer{},
		&models.Technician{},
		&models.Appointment{},
		&models.Bill{},
		&models.BillLineItem{},
		&models.Photo{},
		&models.Settings{},
	)

	if err := config.EnsureSettings(config.DB); err != nil {
		log.Fatalf("Failed to seed settings: %v", err)
	}
}

func main() {
	store, err := services.NewPhotoStorageFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}
	controllers.PhotoStore = store

	reminders := services.NewReminderService(config.DB)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()

	// Serve local uploads when the local backend is in use
	if local, ok := store.(*services.LocalStorage); ok {
		r.Static("/uploads", local.Dir())
	}

	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
