package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventplanner/config"
	_ "eventplanner/docs"
	"eventplanner/internal/adapters/auth"
	delivery "eventplanner/internal/delivery/http"
	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/repository/postgres"
	"eventplanner/internal/services"

	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

// @title Event Planner API
// @version 1.0
// @description Events, invitations and RSVPs for registered users.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	rsvpRepo := postgres.NewRSVPRepository(db)

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	accountService := services.NewAccountService(userRepo, hasher, issuer, cfg.RequestTimeout)
	eventService := services.NewEventService(eventRepo, rsvpRepo, invitationRepo, cfg.RequestTimeout)
	rsvpService := services.NewRSVPService(rsvpRepo, eventRepo, cfg.RequestTimeout)
	invitationService := services.NewInvitationService(invitationRepo, eventRepo, userRepo, cfg.RequestTimeout)

	mux := delivery.NewRouter(delivery.Controllers{
		Auth:       controllers.NewAuthController(logger, accountService, cfg.JWTExpiry, cfg.CookieSecure),
		Event:      controllers.NewEventController(logger, eventService),
		RSVP:       controllers.NewRSVPController(logger, rsvpService),
		Invitation: controllers.NewInvitationController(logger, invitationService),
		Health:     controllers.NewHealthController(logger, db),
	}, middleware.RequireAuth(verifier, logger))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           delivery.NewHandler(mux, logger, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
