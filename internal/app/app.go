package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rentadriver/ride-booking-system/config"
	httpserver "github.com/rentadriver/ride-booking-system/internal/adapter/http/server"
	"github.com/rentadriver/ride-booking-system/internal/adapter/nominatim"
	"github.com/rentadriver/ride-booking-system/internal/adapter/postgres"
	rabbitadapter "github.com/rentadriver/ride-booking-system/internal/adapter/rabbit"
	"github.com/rentadriver/ride-booking-system/internal/service/auth"
	"github.com/rentadriver/ride-booking-system/internal/service/booking"
	"github.com/rentadriver/ride-booking-system/internal/service/chat"
	"github.com/rentadriver/ride-booking-system/internal/service/driver"
	"github.com/rentadriver/ride-booking-system/internal/service/emergency"
	"github.com/rentadriver/ride-booking-system/internal/service/leaderboard"
	"github.com/rentadriver/ride-booking-system/internal/service/match"
	"github.com/rentadriver/ride-booking-system/internal/service/review"
	"github.com/rentadriver/ride-booking-system/internal/service/ride"
	"github.com/rentadriver/ride-booking-system/pkg/logger"
	postgresclient "github.com/rentadriver/ride-booking-system/pkg/postgres"
	"github.com/rentadriver/ride-booking-system/pkg/rabbit"
	"github.com/rentadriver/ride-booking-system/pkg/trm"
)

type App struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbit.RabbitMQ
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	txManager := trm.New(db.Pool)

	// repositories
	userRepo := postgres.NewUserRepo(db.Pool)
	refreshRepo := postgres.NewRefreshTokenRepo(db.Pool)
	rideRepo := postgres.NewRideRepo(db.Pool)
	bookingRepo := postgres.NewBookingRepo(db.Pool)
	profileRepo := postgres.NewDriverProfileRepo(db.Pool)
	reviewRepo := postgres.NewReviewRepo(db.Pool)
	contactRepo := postgres.NewEmergencyContactRepo(db.Pool)
	alertRepo := postgres.NewEmergencyAlertRepo(db.Pool)
	chatRepo := postgres.NewChatMessageRepo(db.Pool)
	statsRepo := postgres.NewStatsRepo(db.Pool)

	geocoder := nominatim.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Geocoder.Timeout)

	// Publishing is optional; services skip it when no broker is wired.
	var (
		rabbitMQ   *rabbit.RabbitMQ
		ridePub    ride.Publisher
		bookingPub booking.Publisher
		alertPub   emergency.Publisher
	)
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}

		pub, err := rabbitadapter.NewPublisher(rabbitMQ)
		if err != nil {
			return nil, fmt.Errorf("failed to create publisher: %w", err)
		}
		ridePub, bookingPub, alertPub = pub, pub, pub
	}

	// services
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, userRepo, refreshRepo, txManager, cfg.Auth.RefreshTokenTTL, cfg.Auth.AccessTokenTTL, log)
	authSvc := auth.NewAuthService(userRepo, tokenSvc, log)
	rideSvc := ride.NewRideService(rideRepo, bookingRepo, geocoder, ridePub, txManager, log)
	matchSvc := match.New(profileRepo, rideRepo, cfg.Matching.RadiusKm, cfg.Matching.Limit, log)
	bookingSvc := booking.NewBookingService(bookingRepo, rideRepo, bookingPub, txManager, log)
	reviewSvc := review.NewReviewService(reviewRepo, bookingRepo, rideRepo, txManager, log)
	chatSvc := chat.NewChatService(chatRepo, bookingRepo, rideRepo, log)
	leaderboardSvc := leaderboard.NewLeaderboardService(statsRepo, cfg.Leaderboard.Limit, log)
	driverSvc := driver.NewDriverService(profileRepo, userRepo, geocoder, txManager, log)
	emergencySvc := emergency.NewEmergencyService(contactRepo, alertRepo, alertPub, txManager, log)

	server, err := httpserver.New(cfg, httpserver.Services{
		Auth:          authSvc,
		Ride:          rideSvc,
		Match:         matchSvc,
		Booking:       bookingSvc,
		Review:        reviewSvc,
		Chat:          chatSvc,
		Leaderboard:   leaderboardSvc,
		Driver:        driverSvc,
		Emergency:     emergencySvc,
		Authenticator: authSvc,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create http server: %w", err)
	}

	return &App{
		postgresDB: db,
		rabbitMQ:   rabbitMQ,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	if a.rabbitMQ != nil {
		if err := a.rabbitMQ.Close(ctx); err != nil {
			a.log.Error(ctx, "failed to close rabbitmq connection", err)
		}
	}

	a.postgresDB.Pool.Close()
}
