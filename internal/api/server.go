package api

import (
	"fmt"
	"log"
	"net"

	"github.com/esign-lab/esign-server/internal/api/middleware"
	"github.com/esign-lab/esign-server/internal/models"
	"github.com/esign-lab/esign-server/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

type APIServer struct {
	app                 *fiber.App
	userService         services.UserService
	contactService      services.ContactService
	templateService     services.TemplateService
	documentService     services.DocumentService
	notificationService services.NotificationService
	webhookService      services.WebhookService
	hookService         services.HookService
	validate            *validator.Validate
	authConfig          middleware.AuthConfig
	port                int
}

func NewAPIServer(
	userService services.UserService,
	contactService services.ContactService,
	templateService services.TemplateService,
	documentService services.DocumentService,
	notificationService services.NotificationService,
	webhookService services.WebhookService,
	hookService services.HookService,
	authConfig middleware.AuthConfig,
) *APIServer {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// Add middleware
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	server := &APIServer{
		app:                 app,
		userService:         userService,
		contactService:      contactService,
		templateService:     templateService,
		documentService:     documentService,
		notificationService: notificationService,
		webhookService:      webhookService,
		hookService:         hookService,
		validate:            validator.New(),
		authConfig:          authConfig,
	}
	server.setupRoutes()
	return server
}

func (s *APIServer) setupRoutes() {
	v1 := s.app.Group("/api/v1", middleware.AuthMiddleware(s.authConfig))

	v1.Post("/documents", s.handleCreateDocument)
	v1.Get("/documents/:id", s.handleGetDocument)

	v1.Post("/contacts", s.handleCreateContact)

	v1.Post("/templates", s.handleCreateTemplate)
	v1.Get("/templates", s.handleListTemplates)
	v1.Get("/templates/:id", s.handleGetTemplate)

	v1.Put("/profile", s.handleUpdateProfile)

	// Health check
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})
}

// currentUser resolves the authenticated principal to an account
// record, provisioning one on first sight. Returns nil when the
// request carries no usable identity.
func (s *APIServer) currentUser(c *fiber.Ctx) *models.User {
	authUser := middleware.GetAuthenticatedUser(c)
	if authUser == nil || authUser.Email == "" {
		return nil
	}

	user, err := s.userService.GetOrCreateByEmail(authUser.Email, authUser.Name)
	if err != nil {
		log.Printf("Error resolving user %s: %v", authUser.Email, err)
		return nil
	}
	if authUser.Sub != "" && user.Sub == "" {
		user.Sub = authUser.Sub
	}
	return user
}

// Start starts the server. When port is nil a random available port is
// chosen.
func (s *APIServer) Start(port *int) (int, error) {
	selected := 0
	if port != nil {
		selected = *port
	}

	if selected == 0 {
		listener, err := net.Listen("tcp", ":0")
		if err != nil {
			return 0, fmt.Errorf("failed to find available port: %w", err)
		}
		selected = listener.Addr().(*net.TCPAddr).Port
		listener.Close()
	}

	s.port = selected

	go func() {
		if err := s.app.Listen(fmt.Sprintf(":%d", selected)); err != nil {
			log.Printf("Error starting API server: %v\n", err)
		}
	}()

	return selected, nil
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}

func (s *APIServer) GetPort() int {
	return s.port
}

// App exposes the underlying Fiber app for tests.
func (s *APIServer) App() *fiber.App {
	return s.app
}
