package main

import (
	"log"
	"ticket_manager/config"
	"ticket_manager/database"
	"ticket_manager/helper"
	"ticket_manager/router"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	helper.OrderTTL = config.ConfigDuration("ORDER_TTL_MINUTES", helper.OrderTTL)

	database.ConnectDB()
	database.ConnectRedis()

	helper.StartNotificationWorker()

	helper.StartSaleWindowScheduler()
	defer helper.StopSaleWindowScheduler()
	helper.StartEventStatusScheduler()
	defer helper.StopEventStatusScheduler()

	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			<-ticker.C
			helper.ExpireOrders()
		}
	}()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.ConfigOr("CORS_ORIGIN", "http://localhost:5173"),
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	router.SetupRoutes(app)

	log.Fatal(app.Listen(":" + config.ConfigOr("PORT", "8002")))
}
