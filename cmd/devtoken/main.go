// Command devtoken mints access tokens for local development, since the platform has no
// login flow of its own.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/auth/jwt"
)

func main() {
	var (
		userID  = flag.Int64("user", 1, "User id carried by the token")
		role    = flag.String("role", string(auth.RoleTeacher), "Role: admin, teacher, or student")
		ttl     = flag.Duration("ttl", 24*time.Hour, "Token lifetime")
		issuer  = flag.String("issuer", "", "Issuer claim (defaults to JWT_ISSUER)")
		envFile = flag.String("env", "configs/.env", "Optional .env file providing JWT_SECRET")
	)
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	_ = godotenv.Load(*envFile)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	parsed, err := auth.ParseRole(*role)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid role")
	}
	if *userID <= 0 {
		log.Fatal().Int64("user", *userID).Msg("user id must be positive")
	}
	if *issuer == "" {
		*issuer = os.Getenv("JWT_ISSUER")
	}

	tokens := jwt.NewManager(jwt.TokenConfig{
		Secret:    []byte(secret),
		AccessTTL: *ttl,
		Issuer:    *issuer,
	})
	token, err := tokens.GenerateAccessToken(*userID, string(parsed))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to sign token")
	}
	fmt.Println(token)
}
