package server

import (
	"go-grocery-delivery/internal/event"
	"go-grocery-delivery/internal/handler"
	"go-grocery-delivery/internal/middleware"
	"go-grocery-delivery/internal/model"
	"go-grocery-delivery/internal/repository"
	"go-grocery-delivery/internal/service"
	"go-grocery-delivery/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Options configures the HTTP application
type Options struct {
	DB                *gorm.DB
	Hub               *ws.Hub
	Events            event.Publisher
	LowStockThreshold int
	RequestLogging    bool
}

// New wires repositories, services and handlers into a fiber app
func New(opts Options) *fiber.App {
	db := opts.DB

	// 1. Repositories
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	userRepo := repository.NewUserRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	// 2. Services
	orderService := service.NewOrderService(orderRepo, productRepo, userRepo, db, opts.Events)
	productService := service.NewProductService(productRepo, db, opts.Events)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	dashService := service.NewDashboardService(statsRepo, opts.LowStockThreshold)

	// 3. Handlers
	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	dashHandler := handler.NewDashboardHandler(dashService)

	app := fiber.New(fiber.Config{
		AppName: "Grocery Delivery API v1.0",
	})

	if opts.RequestLogging {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	auth := middleware.RequireAuth(userRepo)

	// ============ PUBLIC ROUTES ============
	users := api.Group("/users")
	users.Post("/register", authHandler.Register)
	users.Post("/login", authHandler.Login)
	users.Post("/validate-token", authHandler.ValidateToken)

	api.Get("/products", productHandler.GetProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// ============ PROTECTED ROUTES ============
	users.Get("", auth, middleware.RequireCapability(model.CapViewUsers), userHandler.GetAllUsers)
	users.Get("/:id", auth, middleware.RequireCapability(model.CapViewUsers), userHandler.GetUser)

	api.Post("/products", auth, middleware.RequireCapability(model.CapManageProducts), productHandler.CreateProduct)
	api.Put("/products/:id", auth, middleware.RequireCapability(model.CapManageProducts), productHandler.UpdateProduct)

	orders := api.Group("/orders", auth)
	orders.Post("", orderHandler.PlaceOrder)
	orders.Get("", orderHandler.GetOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Put("/:id/assign", orderHandler.AssignDelivery)
	// Route used by the delivery app
	orders.Put("/assign/:id", orderHandler.AssignDelivery)
	orders.Put("/:id/status", orderHandler.UpdateStatus)

	api.Get("/dashboard/stats", auth, middleware.RequireCapability(model.CapViewDashboard), dashHandler.GetDashboardStats)

	// WebSocket Route
	if opts.Hub != nil {
		hub := opts.Hub
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			if !hub.Join(c) {
				return
			}
			defer hub.Leave(c)

			for {
				// Keep alive loop
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}

	return app
}
