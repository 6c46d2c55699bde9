// Package router wires handlers onto the echo route tree.  Routes are
// grouped by audience: public browse, authenticated guests, hotel
// staff (OWNER and ADMIN), and admin-only management.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Handlers collects every handler the route tree needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Hotels       *handler.HotelHandler
	RoomTypes    *handler.RoomTypeHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
	Payments     *handler.PaymentHandler
	Owner        *handler.OwnerHandler
	Uploads      *handler.UploadHandler
	Explore      *handler.ExploreHandler
}

// Register mounts the whole API under /v1.  The Redis client may be
// nil, in which case rate limiting and response caching switch off.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(limiter)

	// ---- Auth ----
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)
	auth.POST("/logout", h.Auth.Logout)

	// ---- Public browse (cached) ----
	pub := e.Group("/v1", cache)
	pub.GET("/hotels", h.Hotels.List)
	pub.GET("/hotels/:hotel_id", h.Hotels.Get)
	pub.GET("/hotels/:hotel_id/room-types", h.RoomTypes.List)
	pub.GET("/hotels/:hotel_id/room-types/:id", h.RoomTypes.Get)
	pub.GET("/hotels/:hotel_id/rooms/available", h.Rooms.Available)
	pub.GET("/explore", h.Explore.List)

	// ---- Any authenticated user ----
	user := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	user.GET("/me", h.Auth.Me)
	user.POST("/logout", h.Auth.Logout) // body-less variant: revoke every session
	user.POST("/reservations", h.Reservations.Create)
	user.GET("/reservations", h.Reservations.List)
	user.GET("/reservations/:id", h.Reservations.Get)
	user.GET("/reservations/code/:code", h.Reservations.Lookup)
	user.PUT("/reservations/:id", h.Reservations.UpdateWindow)
	user.PATCH("/reservations/:id", h.Reservations.UpdateWindow)
	user.POST("/reservations/:id/cancel", h.Reservations.Cancel)
	user.POST("/reservations/:id/payments", h.Payments.Charge)
	user.GET("/reservations/:id/payments", h.Payments.Summary)
	user.PATCH("/payments/:payment_id", h.Payments.UpdatePending)
	user.DELETE("/payments/:payment_id", h.Payments.DeletePending)

	// ---- Hotel staff (OWNER, ADMIN) ----
	staff := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleOwner, model.RoleAdmin),
	)
	staff.POST("/hotels", h.Hotels.Create)
	staff.GET("/my-hotels", h.Hotels.ListMine)
	staff.PUT("/hotels/:hotel_id", h.Hotels.Update)
	staff.PATCH("/hotels/:hotel_id", h.Hotels.Update)
	staff.DELETE("/hotels/:hotel_id", h.Hotels.Delete)

	staff.POST("/hotels/:hotel_id/room-types", h.RoomTypes.Create)
	staff.PUT("/hotels/:hotel_id/room-types/:id", h.RoomTypes.Update)
	staff.PATCH("/hotels/:hotel_id/room-types/:id", h.RoomTypes.Update)
	staff.DELETE("/hotels/:hotel_id/room-types/:id", h.RoomTypes.Delete)

	staff.POST("/hotels/:hotel_id/rooms", h.Rooms.Create)
	staff.GET("/hotels/:hotel_id/rooms", h.Rooms.List)
	staff.GET("/hotels/:hotel_id/rooms/:id", h.Rooms.Get)
	staff.PUT("/hotels/:hotel_id/rooms/:id", h.Rooms.Update)
	staff.PATCH("/hotels/:hotel_id/rooms/:id/status", h.Rooms.SetStatus)
	staff.DELETE("/hotels/:hotel_id/rooms/:id", h.Rooms.Delete)

	staff.POST("/reservations/:id/confirm", h.Reservations.Confirm)
	staff.POST("/reservations/:id/check-in", h.Reservations.CheckIn)
	staff.POST("/reservations/:id/check-out", h.Reservations.CheckOut)
	staff.POST("/payments/:payment_id/complete", h.Payments.Complete)
	staff.POST("/payments/:payment_id/fail", h.Payments.Fail)
	staff.POST("/payments/:payment_id/refund", h.Payments.Refund)

	staff.GET("/dashboard", h.Owner.Dashboard)
	staff.GET("/dashboard/analytics", h.Owner.Analytics)

	staff.POST("/hotels/:hotel_id/images", h.Uploads.HotelImage)
	staff.DELETE("/hotels/:hotel_id/images", h.Uploads.RemoveHotelImage)
	staff.POST("/hotels/:hotel_id/room-types/:id/images", h.Uploads.RoomTypeImage)

	// ---- Admin only ----
	admin := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.GET("/users", h.Auth.ListUsers)
	admin.PATCH("/users/:id/role", h.Auth.UpdateUserRole)
	admin.GET("/payments", h.Payments.List)
	admin.POST("/explore", h.Explore.Create)
	admin.PATCH("/explore/:id", h.Explore.Update)
	admin.DELETE("/explore/:id", h.Explore.Delete)
}
