package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	creatorconnect "github.com/creatorconnect/server"
	"github.com/creatorconnect/server/middleware/jwtware"
)

func main() {
	cfg := creatorconnect.LoadConfig()
	logger := appLogger{}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := creatorconnect.SetupSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("failed to set up schema: %v", err)
	}
	cancel()

	repo := creatorconnect.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := creatorconnect.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		jwt.ClaimStrings(cfg.GetAudience()),
		logger,
	)

	var mailer creatorconnect.Mailer
	if cfg.ResendAPIKey != "" {
		mailer, err = creatorconnect.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.AppURL, logger)
		if err != nil {
			log.Fatalf("failed to initialize mailer: %v", err)
		}
	} else {
		logger.Info("no RESEND_API_KEY set, outgoing mail goes to stdout")
		mailer = creatorconnect.ConsoleMailer{AppURL: cfg.AppURL}
	}

	controller := creatorconnect.NewAPIController(
		creatorconnect.WithControllerDebug(cfg.Debug),
		creatorconnect.WithControllerLogger(logger),
		creatorconnect.WithControllerRepo(repo),
		creatorconnect.WithControllerTokens(tokens),
		creatorconnect.WithControllerMailer(mailer),
		creatorconnect.WithControllerContextKey(cfg.GetContextKey()),
	)

	guard := jwtware.New(jwtware.Config{
		TokenValidator: validatorAdapter{tokens: tokens},
		SigningKey: jwtware.SigningKey{
			JWTAlg: cfg.GetSigningMethod(),
			Key:    []byte(cfg.GetSigningKey()),
		},
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
		AuthScheme:  cfg.GetAuthScheme(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if err.Error() == jwtware.ErrJWTMissingOrMalformed.Error() {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authentication required",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		},
	})

	app := fiber.New(fiber.Config{
		AppName: "creatorconnect",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	creatorconnect.RegisterRoutes(app, controller, guard)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
}

// validatorAdapter narrows the token service to the middleware contract
type validatorAdapter struct {
	tokens creatorconnect.TokenService
}

func (v validatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

type appLogger struct{}

func (appLogger) Debug(format string, args ...any) {
	log.Printf("[DBG] "+format, args...)
}

func (appLogger) Info(format string, args ...any) {
	log.Printf("[INF] "+format, args...)
}

func (appLogger) Error(format string, args ...any) {
	log.Printf("[ERR] "+format, args...)
}
