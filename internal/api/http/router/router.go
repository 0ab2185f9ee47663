package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dtroode/promptgallery-server/internal/api/http/handler"
	"github.com/dtroode/promptgallery-server/internal/api/http/middleware"
	"github.com/dtroode/promptgallery-server/internal/apierrors"
	"github.com/dtroode/promptgallery-server/internal/logger"
	"github.com/dtroode/promptgallery-server/internal/model"
	"github.com/dtroode/promptgallery-server/internal/service"
)

// Options holds transport limits.
type Options struct {
	// BodyLimit is the maximum request body size in bytes.
	BodyLimit      int
	RequestTimeout time.Duration
}

// Router builds the fiber application serving the gallery API.
type Router struct {
	authService     *service.Auth
	categoryService *service.Categories
	contentService  *service.Content
	artifacts       *service.Artifacts
	store           handler.Pinger
	contextManager  model.ContextManager
	opts            Options
	logger          *logger.Logger
}

// New creates new Router instance.
func New(
	authService *service.Auth,
	categoryService *service.Categories,
	contentService *service.Content,
	artifacts *service.Artifacts,
	store handler.Pinger,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:     authService,
		categoryService: categoryService,
		contentService:  contentService,
		artifacts:       artifacts,
		store:           store,
		contextManager:  contextManager,
		opts:            opts,
		logger:          logger,
	}
}

// Register creates the fiber app with middleware and every route.
func (r *Router) Register() *fiber.App {
	// Form and body strings outlive the request in the repositories, so they
	// must not alias fasthttp's reused buffers.
	app := fiber.New(fiber.Config{
		Immutable:             true,
		BodyLimit:             r.opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          r.handleError,
	})

	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.contextManager, r.logger)

	app.Use(fiberrecover.New())
	app.Use(logging.Handle)
	app.Use(middleware.Timeout(r.opts.RequestTimeout))

	r.registerHealthRoutes(app)
	r.registerAuthRoutes(app, authenticate)
	r.registerCategoryRoutes(app)
	r.registerPromptRoutes(app, authenticate)
	r.registerFileRoutes(app)

	return app
}

func (r *Router) registerHealthRoutes(app *fiber.App) {
	health := handler.NewHealth(r.store, r.logger)
	app.Get("/", health.Live)
	app.Get("/healthz", health.Ready)
}

func (r *Router) registerAuthRoutes(app *fiber.App, authenticate *middleware.Authenticate) {
	auth := handler.NewAuth(r.authService, r.contextManager, r.logger)

	group := app.Group("/api/auth")
	group.Post("/register", auth.Register)
	group.Post("/login", auth.Login)
	group.Get("/verify", authenticate.Bearer, auth.Verify)
}

func (r *Router) registerCategoryRoutes(app *fiber.App) {
	category := handler.NewCategory(r.categoryService, r.logger)

	group := app.Group("/api/categories")
	group.Get("/", category.List)
	group.Post("/", category.Add)
}

func (r *Router) registerPromptRoutes(app *fiber.App, authenticate *middleware.Authenticate) {
	prompt := handler.NewPrompt(r.contentService, r.contextManager, r.logger)

	app.Get("/api/allPrompts", prompt.All)

	group := app.Group("/api/prompts")
	group.Get("/", prompt.List)
	group.Post("/", authenticate.RequireBearer, prompt.Create)
	group.Get("/:id", prompt.Get)
	group.Post("/:id/comments", prompt.AddComment)
}

func (r *Router) registerFileRoutes(app *fiber.App) {
	prefix := r.artifacts.PublicPrefix()
	if prefix == "" {
		return
	}
	files := handler.NewFiles(r.artifacts, r.logger)
	app.Get(prefix+"/*", files.Serve)
}

// handleError renders errors that escaped the handlers, such as unknown
// routes or oversized bodies.
func (r *Router) handleError(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	r.logger.Error("Router: unhandled error",
		"path", c.Path(),
		"error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": apierrors.MessageInternal})
}
