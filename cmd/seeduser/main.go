// Command seeduser creates or resets a user, by default the demo admin.
//
//	go run ./cmd/seeduser -username admin -password admin -role admin
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"ims/internal/config"
	"ims/internal/infra"
	"ims/internal/session"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "admin", "username to create or reset")
	password := flag.String("password", "admin", "plain-text password, stored as a bcrypt hash")
	role := flag.String("role", session.RoleAdmin, "role (admin | staff)")
	flag.Parse()

	if _, ok := session.PanelForRole(*role); !ok {
		log.Warn().Str("role", *role).Msg("role has no panel; the user will not be able to log in")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES (?, ?, ?, NOW())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    role = EXCLUDED.role
	`, *username, string(hash), *role)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("upsert user")
	}
	log.Info().Str("username", *username).Str("role", *role).Msg("user created or updated")
}
