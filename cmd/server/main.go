package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/database"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/media"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/router"
)

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}

	var mediaStore *media.Store
	if cfg.MediaEnabled() {
		mediaStore, err = media.NewStore(cfg.CloudinaryName, cfg.CloudinaryKey, cfg.CloudinarySecret)
		if err != nil {
			log.Fatalf("media: %v", err)
		}
	} else {
		log.Println("cloudinary not configured: image uploads disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hotels := repository.NewHotelRepo(db)
	roomTypes := repository.NewRoomTypeRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	payments := repository.NewPaymentRepo(db)
	explore := repository.NewExploreRepo(db)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Hotels:       handler.NewHotelHandler(hotels),
		RoomTypes:    handler.NewRoomTypeHandler(roomTypes, hotels),
		Rooms:        handler.NewRoomHandler(rooms, roomTypes, hotels),
		Reservations: handler.NewReservationHandler(reservations, rooms, roomTypes, hotels, payments),
		Payments:     handler.NewPaymentHandler(payments, reservations, hotels),
		Owner:        handler.NewOwnerHandler(reservations),
		Uploads:      handler.NewUploadHandler(mediaStore, hotels, roomTypes),
		Explore:      handler.NewExploreHandler(explore, mediaStore),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	router.Register(e, h, cfg.JWTSecret, rdb)

	// Drains reservation.events into logs/reservations.log; reconnects
	// forever on broker failure.
	go queue.StartEventConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
