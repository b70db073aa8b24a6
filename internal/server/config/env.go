package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFiles are loaded before the environment is read. Missing files are
// ignored; variables already present in the environment win.
var dotenvFiles = []string{".env"}

// parseEnv overlays values from environment variables.
//
// Recognised variables:
//
//	PORT / HTTP_ADDR        listen port (":"+PORT) or full bind address
//	DATABASE_URL            PostgreSQL DSN
//	JWT_SECRET              HMAC secret
//	JWT_EXPIRES_IN          token lifetime: "1h", "30m", "7d" or seconds
//	BCRYPT_COST             bcrypt work factor
//	VERIFICATION_REQUIRED   "true" refuses login for unverified users
//	BASE_URL                public URL used in email links
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, SMTP_FROM
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
//	CORS_ORIGIN             comma-separated origins
//	LOG_LEVEL               debug, info, warn, error
//
// Malformed numeric, boolean or duration values panic, as a broken
// configuration is a startup error.
func parseEnv(config *Config) {
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				panic(fmt.Errorf("load %s: %w", f, err))
			}
		}
	}

	if v, ok := os.LookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	envString("HTTP_ADDR", &config.EndpointAddrHTTP)
	envString("DATABASE_URL", &config.DatabaseDSN)
	envString("JWT_SECRET", &config.SecretKey)
	envDuration("JWT_EXPIRES_IN", &config.AccessTokenValidityDuration)
	envInt("BCRYPT_COST", &config.BcryptCost)
	envBool("VERIFICATION_REQUIRED", &config.VerificationRequired)
	envString("BASE_URL", &config.PublicBaseURL)

	envString("SMTP_HOST", &config.SMTPHost)
	envInt("SMTP_PORT", &config.SMTPPort)
	envString("SMTP_USER", &config.SMTPUser)
	envString("SMTP_PASSWORD", &config.SMTPPassword)
	envString("SMTP_FROM", &config.SMTPFrom)

	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	envString("CORS_ORIGIN", &config.CORSOrigin)
	envString("LOG_LEVEL", &config.LogLevel)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = n
}

func envBool(key string, dst *bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = b
}

func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := parseLifetime(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}

// parseLifetime accepts Go durations, a day suffix ("7d") and bare seconds.
func parseLifetime(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
