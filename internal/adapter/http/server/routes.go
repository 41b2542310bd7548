package server

import (
	"github.com/rentadriver/ride-booking-system/internal/domain/types"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func (a *API) setupRoutes() {
	mux, m, routes := a.mux, a.m, a.routes

	// System
	mux.HandleFunc("/health", routes.health.HealthCheck)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/swagger/", httpSwagger.Handler())

	// Auth
	mux.HandleFunc("POST /auth/register", routes.auth.Register)
	mux.HandleFunc("POST /auth/login", routes.auth.Login)
	mux.HandleFunc("POST /auth/refresh", routes.auth.Refresh)
	mux.Handle("GET /auth/me", m.RequireRoles(routes.auth.Me))

	// Rides
	mux.Handle("POST /rides", m.RequireRoles(routes.ride.Create, types.CustomerRole))
	mux.Handle("GET /rides/nearby", m.RequireRoles(routes.ride.NearbyRides, types.DriverRole))
	mux.Handle("GET /rides/{ride_id}", m.RequireRoles(routes.ride.Get))
	mux.Handle("PATCH /rides/{ride_id}", m.RequireRoles(routes.ride.Edit, types.CustomerRole))
	mux.Handle("POST /rides/{ride_id}/accept", m.RequireRoles(routes.ride.Accept, types.DriverRole))
	mux.Handle("POST /rides/{ride_id}/cancel", m.RequireRoles(routes.ride.Cancel))

	// Bookings
	mux.Handle("GET /bookings", m.RequireRoles(routes.booking.List))
	mux.Handle("GET /bookings/{booking_id}", m.RequireRoles(routes.booking.Get))
	mux.Handle("PATCH /bookings/{booking_id}/status", m.RequireRoles(routes.booking.UpdateStatus, types.DriverRole))
	mux.Handle("POST /bookings/{booking_id}/cancel", m.RequireRoles(routes.booking.Cancel, types.CustomerRole))
	mux.Handle("POST /bookings/{booking_id}/review", m.RequireRoles(routes.booking.SubmitReview, types.CustomerRole))
	mux.Handle("POST /bookings/{booking_id}/messages", m.RequireRoles(routes.booking.SendMessage))
	mux.Handle("GET /bookings/{booking_id}/messages", m.RequireRoles(routes.booking.ListMessages))

	// Reviews & leaderboard
	mux.Handle("DELETE /reviews/{review_id}", m.RequireRoles(routes.review.Delete))
	mux.Handle("GET /drivers/{driver_id}/reviews", m.RequireRoles(routes.review.ListForDriver))
	mux.Handle("GET /leaderboard", m.RequireRoles(routes.review.Leaderboard))
	mux.Handle("GET /leaderboard/overview", m.RequireRoles(routes.review.Overview))

	// Drivers
	mux.Handle("GET /drivers/profile", m.RequireRoles(routes.driver.GetProfile, types.DriverRole))
	mux.Handle("PUT /drivers/profile", m.RequireRoles(routes.driver.SaveProfile, types.DriverRole))
	mux.Handle("DELETE /drivers/profile/picture", m.RequireRoles(routes.driver.DeletePicture, types.DriverRole))
	mux.Handle("GET /drivers/nearby", m.RequireRoles(routes.ride.NearbyDrivers, types.CustomerRole))

	// Location
	mux.Handle("PUT /users/location", m.RequireRoles(routes.driver.UpdateLocation))

	// Emergency
	mux.Handle("PUT /emergency/contact", m.RequireRoles(routes.emergency.SetContact))
	mux.Handle("GET /emergency/contact", m.RequireRoles(routes.emergency.GetContact))
	mux.Handle("DELETE /emergency/contact", m.RequireRoles(routes.emergency.DeleteContact))
	mux.Handle("POST /emergency/alert", m.RequireRoles(routes.emergency.Trigger))
	mux.Handle("GET /emergency/alerts", m.RequireRoles(routes.emergency.History))
}
