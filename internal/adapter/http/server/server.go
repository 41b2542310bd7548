package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rentadriver/ride-booking-system/config"
	"github.com/rentadriver/ride-booking-system/internal/adapter/http/handler"
	"github.com/rentadriver/ride-booking-system/internal/adapter/http/middleware"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	wrap "github.com/rentadriver/ride-booking-system/pkg/logger/wrapper"
)

const serviceName = "rentadriver"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	health    *handler.Health
	auth      *handler.Auth
	ride      *handler.Ride
	booking   *handler.Booking
	review    *handler.Review
	driver    *handler.Driver
	emergency *handler.Emergency
}

type Services struct {
	Auth        handler.AuthService
	Ride        handler.RideService
	Match       handler.MatchService
	Booking     handler.BookingService
	Review      handler.ReviewService
	Chat        handler.ChatService
	Leaderboard handler.LeaderboardService
	Driver      handler.DriverService
	Emergency   handler.EmergencyService

	Authenticator middleware.AuthService
}

func New(cfg config.Config, svc Services, log logger.Logger) (*API, error) {
	if svc.Authenticator == nil {
		return nil, errors.New("authenticator is required")
	}

	routes := &handlers{
		health:    handler.NewHealth(serviceName, log),
		auth:      handler.NewAuth(svc.Auth, log),
		ride:      handler.NewRide(svc.Ride, svc.Match, log),
		booking:   handler.NewBooking(svc.Booking, svc.Review, svc.Chat, log),
		review:    handler.NewReview(svc.Review, svc.Leaderboard, log),
		driver:    handler.NewDriver(svc.Driver, log),
		emergency: handler.NewEmergency(svc.Emergency, log),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(svc.Authenticator, log),
		addr:   cfg.HTTP.Addr(),
		log:    log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Logging(a.m.Metrics(a.m.Auth(a.mux)))))
}
