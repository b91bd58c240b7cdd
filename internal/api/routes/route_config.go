package routes

import (
	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/api/handlers"
	"Pointspin-Backend/internal/middleware"
	"Pointspin-Backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	MachineHandler   handlers.MachineHandler
	SpinHandler      handlers.SpinHandler
	WalletHandler    handlers.WalletHandler
	InventoryHandler handlers.InventoryHandler
	EventHandler     handlers.EventHandler
	PaymentHandler   handlers.PaymentHandler
	AuditHandler     handlers.AuditHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Machines()
	c.Wallet()
	c.Inventory()
	c.Events()
	c.Payments()
	c.Admin()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/refresh", c.UserHandler.Refresh)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}
}

func (c *Config) Machines() {
	machines := c.App.Group("/api/v1/machines")
	machines.Get("", c.MachineHandler.ListMachines)
	machines.Get("/:id", c.MachineHandler.GetMachine)
	machines.Post("/:id/spin", c.Middleware.AuthMiddleware(c.JWTService), c.SpinHandler.Spin)
}

func (c *Config) Wallet() {
	wallet := c.App.Group("/api/v1/wallet", c.Middleware.AuthMiddleware(c.JWTService))
	wallet.Get("", c.WalletHandler.GetBalance)
	wallet.Get("/ledger", c.WalletHandler.LedgerHistory)
	wallet.Get("/spins", c.SpinHandler.History)
}

func (c *Config) Inventory() {
	inventory := c.App.Group("/api/v1/inventory", c.Middleware.AuthMiddleware(c.JWTService))
	inventory.Get("", c.InventoryHandler.ListInventory)
	inventory.Post("/equip", c.InventoryHandler.Equip)
	inventory.Get("/equips", c.InventoryHandler.ListEquips)
}

func (c *Config) Events() {
	events := c.App.Group("/api/v1/events", c.Middleware.AuthMiddleware(c.JWTService))
	events.Post("/daily-checkin", c.EventHandler.DailyCheckin)
	events.Get("/status", c.EventHandler.Status)
}

func (c *Config) Payments() {
	payments := c.App.Group("/api/v1/payments")
	payments.Get("/packages", c.PaymentHandler.GetPackages)
	payments.Post("/orders", c.Middleware.AuthMiddleware(c.JWTService), c.PaymentHandler.CreateOrder)
	payments.Get("/orders", c.Middleware.AuthMiddleware(c.JWTService), c.PaymentHandler.ListOrders)
}

func (c *Config) Admin() {
	admin := c.App.Group(
		"/api/v1/admin",
		c.Middleware.AuthMiddleware(c.JWTService),
		c.Middleware.RequireRoles(domain.RoleAdmin, domain.RoleOp),
	)

	admin.Post("/machines", c.MachineHandler.CreateMachine)
	admin.Patch("/machines/:id", c.MachineHandler.UpdateMachine)
	admin.Post("/machines/:id/versions", c.MachineHandler.CreateVersion)
	admin.Get("/machines/:id/versions", c.MachineHandler.ListVersions)
	admin.Get("/machines/:id/versions/:version_id", c.MachineHandler.GetVersion)
	admin.Post("/machines/:id/versions/:version_id/publish", c.MachineHandler.PublishVersion)

	admin.Get("/rewards", c.InventoryHandler.ListRewards)
	admin.Post("/rewards", c.InventoryHandler.CreateReward)
	admin.Patch("/rewards/:id", c.InventoryHandler.UpdateReward)
	admin.Post("/rewards/:id/image", c.InventoryHandler.UploadRewardImage)

	admin.Get("/users/:user_id", c.UserHandler.Detail)
	admin.Post("/users/:user_id/points", c.WalletHandler.AdjustPoints)
	admin.Get("/audit", c.AuditHandler.History)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Post("/webhook/payments", c.PaymentHandler.Webhook)
}
