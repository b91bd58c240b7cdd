package main

import (
	"log"

	"Pointspin-Backend/cmd/config"
	migration "Pointspin-Backend/cmd/database/migrate"
	"Pointspin-Backend/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up app: %v", err)
	}

	log.Fatal(app.Listen(":8080"))
}
