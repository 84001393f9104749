package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/transportagency/bus-ticket-sales/internal/config"
	"github.com/transportagency/bus-ticket-sales/internal/database"
	"github.com/transportagency/bus-ticket-sales/internal/handler"
	"github.com/transportagency/bus-ticket-sales/internal/model"
	"github.com/transportagency/bus-ticket-sales/internal/queue"
	"github.com/transportagency/bus-ticket-sales/internal/repository"
	"github.com/transportagency/bus-ticket-sales/internal/router"
	"github.com/transportagency/bus-ticket-sales/internal/service"
)

func main() {
	// .env is optional; real deployments set variables in the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	buses := repository.NewBusRepo(db)
	routes := repository.NewRouteRepo(db)
	trips := repository.NewTripRepo(db)
	seats := repository.NewSeatRepo(db)
	customers := repository.NewCustomerRepo(db)
	sales := repository.NewSaleRepo(db)

	seatSvc := service.NewSeatService(db, seats, trips)
	saleSvc := service.NewSaleService(db, sales, seats, customers,
		func(ctx context.Context, d model.SaleDetail) {
			// Failures here are logged by the publisher; the sale stays
			// committed either way.
			_ = queue.PublishSaleCompleted(ctx, queue.EventFromDetail(d))
		})

	// The consumer renders receipt PDFs from committed sales. It runs its
	// own reconnect loop for the lifetime of the process.
	go queue.StartReceiptConsumer(cfg.ReceiptDir)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg))
	router.RegisterPublic(e,
		handler.NewPublicHandler(trips, seatSvc),
		handler.NewSaleHandler(saleSvc),
		rdb)
	router.RegisterAdmin(e,
		handler.NewAdminHandler(buses, routes, trips, customers, seatSvc, saleSvc),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
