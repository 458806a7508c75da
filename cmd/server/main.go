package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/esign-lab/esign-server/internal/api"
	"github.com/esign-lab/esign-server/internal/api/middleware"
	"github.com/esign-lab/esign-server/internal/server"
	"github.com/esign-lab/esign-server/internal/services"
	"github.com/esign-lab/esign-server/internal/utils"
	_ "github.com/joho/godotenv/autoload" // Automatically load .env file if present
)

func main() {
	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	parsedPort, err := strconv.Atoi(port)
	if err != nil {
		log.Fatal("Invalid port number:", err)
	}

	// Postgres when configured, SQLite otherwise
	var dbService services.DBService
	if postgresUrl := os.Getenv("POSTGRES_URL"); postgresUrl != "" {
		dbService, err = services.NewPostgresDBService(postgresUrl)
	} else {
		dbPath := os.Getenv("DATABASE_PATH")
		if dbPath == "" {
			dbPath = "data/esign.db"
		}
		dbService, err = services.NewSqliteDBService(dbPath)
	}
	if err != nil {
		log.Fatal("Failed to initialize database service:", err)
	}

	// Outbound mail goes through the mail API when configured
	var mailer services.Mailer
	if mailApiUrl := os.Getenv("MAIL_API_URL"); mailApiUrl != "" {
		mailer = services.NewHTTPMailer(mailApiUrl, os.Getenv("MAIL_API_KEY"))
	} else {
		log.Println("MAIL_API_URL not set, signing notifications will be logged only")
		mailer = services.NewLogMailer()
	}

	// Initialize services and hooks
	userService, contactService, templateService, documentService, notificationService, webhookService, hookService :=
		server.InitializeServices(dbService.GetDB(), mailer, utils.SigningLinkModeFromEnv())
	contactLinkerHook := server.InitializeHooks(dbService.GetDB(), userService)
	server.RegisterHooks(hookService, contactLinkerHook)

	// Bearer tokens are validated against the configured JWKS endpoint
	authConfig := middleware.AuthConfig{
		JWTAuthenticator: utils.NewJwtAuthenticator(os.Getenv("JWKS_URI")),
	}

	apiServer := api.NewAPIServer(
		userService,
		contactService,
		templateService,
		documentService,
		notificationService,
		webhookService,
		hookService,
		authConfig,
	)

	startedPort, err := apiServer.Start(&parsedPort)
	if err != nil {
		log.Fatal("Failed to start API server:", err)
	}

	log.Printf("API server started on port %d\n", startedPort)

	// Set up graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("\nShutting down server...")

	if err := apiServer.Shutdown(); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}

	if err := dbService.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server shut down successfully")
}
