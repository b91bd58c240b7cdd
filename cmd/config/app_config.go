package config

import (
	"os"
	"time"

	"Pointspin-Backend/internal/api/handlers"
	"Pointspin-Backend/internal/api/routes"
	"Pointspin-Backend/internal/middleware"
	"Pointspin-Backend/internal/utils"
	"Pointspin-Backend/internal/utils/storage"
	"Pointspin-Backend/pkg/audit"
	"Pointspin-Backend/pkg/event"
	"Pointspin-Backend/pkg/inventory"
	"Pointspin-Backend/pkg/jwt"
	"Pointspin-Backend/pkg/machine"
	"Pointspin-Backend/pkg/midtrans"
	"Pointspin-Backend/pkg/payment"
	"Pointspin-Backend/pkg/ratelimit"
	"Pointspin-Backend/pkg/selector"
	"Pointspin-Backend/pkg/spin"
	"Pointspin-Backend/pkg/user"
	"Pointspin-Backend/pkg/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Seoul",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3, err := storage.NewAwsS3()
	if err != nil {
		log.Fatalf("error setting up s3: %v", err)
	}
	redisClient := ConnectRedis()

	// Repository
	userRepository := user.NewUserRepository(db)
	walletRepository := wallet.NewWalletRepository(db)
	machineRepository := machine.NewMachineRepository(db)
	inventoryRepository := inventory.NewInventoryRepository(db)
	spinRepository := spin.NewSpinRepository(db)
	paymentRepository := payment.NewPaymentRepository(db)
	auditRepository := audit.NewAuditRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	auditService := audit.NewAuditService(auditRepository)
	walletService := wallet.NewWalletService(db, walletRepository)
	userService := user.NewUserService(db, userRepository, walletRepository, jwtService)
	machineService := machine.NewMachineService(db, machineRepository, auditService)
	inventoryService := inventory.NewInventoryService(inventoryRepository, auditService, s3)
	midtransService := midtrans.NewMidtransService()
	paymentService := payment.NewPaymentService(
		db,
		paymentRepository,
		userRepository,
		walletService,
		midtransService,
		utils.GetConfig("WEBHOOK_SHARED_SECRET"),
	)
	eventService := event.NewEventService(db, walletRepository, walletService)
	spinLimiter := ratelimit.NewSpinLimiter(
		redisClient,
		utils.GetConfigInt("RATE_SPIN_PER_SECOND", 3),
		utils.GetConfigInt("RATE_SPIN_PER_MINUTE", 60),
	)
	spinService := spin.NewSpinService(
		db,
		spinRepository,
		machineRepository,
		walletService,
		inventoryService,
		spinLimiter,
		selector.NewCryptoSource(),
		int64(utils.GetConfigInt("DUST_POINTS", 5)),
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	machineHandler := handlers.NewMachineHandler(machineService, validator)
	spinHandler := handlers.NewSpinHandler(spinService, validator)
	walletHandler := handlers.NewWalletHandler(walletService, validator)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, validator)
	eventHandler := handlers.NewEventHandler(eventService)
	paymentHandler := handlers.NewPaymentHandler(paymentService, validator)
	auditHandler := handlers.NewAuditHandler(auditService)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		MachineHandler:   machineHandler,
		SpinHandler:      spinHandler,
		WalletHandler:    walletHandler,
		InventoryHandler: inventoryHandler,
		EventHandler:     eventHandler,
		PaymentHandler:   paymentHandler,
		AuditHandler:     auditHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
