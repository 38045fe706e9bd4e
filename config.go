package creatorconnect

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds runtime settings loaded from the environment
type AppConfig struct {
	ListenAddr      string
	DSN             string
	SigningKey      string
	Issuer          string
	Audience        []string
	TokenExpiration int
	ResendAPIKey    string
	MailFrom        string
	AppURL          string
	Debug           bool
}

var _ Config = (*AppConfig)(nil)

// LoadConfig reads settings from the environment. A .env file is
// loaded when present, real environment variables win.
func LoadConfig() *AppConfig {
	godotenv.Load()

	cfg := &AppConfig{
		ListenAddr:      envOr("LISTEN_ADDR", ":3000"),
		DSN:             envOr("DATABASE_DSN", "file:creatorconnect.db?cache=shared&_pragma=foreign_keys(1)"),
		SigningKey:      envOr("JWT_SECRET", "your-secret-key-change-in-production"),
		Issuer:          envOr("JWT_ISSUER", "creatorconnect"),
		TokenExpiration: envIntOr("TOKEN_EXPIRATION_HOURS", 168),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		MailFrom:        envOr("MAIL_FROM", "CreatorConnect <noreply@creatorconnect.app>"),
		AppURL:          envOr("APP_URL", "http://localhost:3000"),
		Debug:           envBool("DEBUG"),
	}

	if aud := os.Getenv("JWT_AUDIENCE"); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	return cfg
}

func (c *AppConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *AppConfig) GetSigningMethod() string {
	return "HS256"
}

func (c *AppConfig) GetContextKey() string {
	return "session"
}

func (c *AppConfig) GetTokenExpiration() int {
	return c.TokenExpiration
}

func (c *AppConfig) GetTokenLookup() string {
	return "header:Authorization"
}

func (c *AppConfig) GetAuthScheme() string {
	return "Bearer"
}

func (c *AppConfig) GetIssuer() string {
	return c.Issuer
}

func (c *AppConfig) GetAudience() []string {
	return c.Audience
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}
