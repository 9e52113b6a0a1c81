// Command adduser creates an account out-of-band. The API itself never
// creates or mutates accounts.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolplanner/backend/internal/config"
)

func main() {
	username := flag.String("username", "", "account username (required)")
	password := flag.String("password", "", "account password (required)")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer conn.Close(ctx)

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	id := uuid.New().String()
	table := pgx.Identifier{cfg.AccountsTable}.Sanitize()
	_, err = conn.Exec(ctx,
		`INSERT INTO `+table+` (id, username, password) VALUES ($1, $2, $3)`,
		id, *username, string(hashed))
	if err != nil {
		log.Fatalf("insert account: %v", err)
	}

	log.Printf("created account %s (%s)", *username, id)
}
