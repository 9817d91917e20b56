// cmd/gentoken/main.go: prints an access token for a seeded user.
// Usage: go run ./cmd/gentoken -email seller@buyonline.local
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"buyonline/internal/config"
	"buyonline/internal/infra"
	"buyonline/internal/middleware"
	"buyonline/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	email := flag.String("email", "seller@buyonline.local", "user to mint the token for")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	u, err := repository.NewUserRepository(db).FindByEmail(context.Background(), *email)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("user not found, run seedcatalog first")
	}
	token, err := middleware.IssueToken(cfg.JWTSecret, *u, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		log.Fatal().Err(err).Msg("sign token")
	}
	fmt.Println(token)
}
