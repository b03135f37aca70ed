package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/sudo-init-do/rentaskill/internal/db"
	"github.com/sudo-init-do/rentaskill/internal/store"
	"github.com/sudo-init-do/rentaskill/internal/store/postgres"
)

func main() {
	email := flag.String("email", "", "email of the provider to verify")
	revoke := flag.Bool("revoke", false, "clear the verified flag instead of setting it")
	flag.Parse()

	if *email == "" {
		log.Fatalf("usage: verify_provider -email user@example.com [-revoke]")
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatalf("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, dsn, zerolog.Nop())
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	st := postgres.New(pool)
	defer st.Close()

	if err := st.SetVerified(ctx, *email, !*revoke); err != nil {
		if err == store.ErrNotFound {
			log.Fatalf("no user found with email %s", *email)
		}
		log.Fatalf("update failed: %v", err)
	}

	if *revoke {
		fmt.Printf("User %s is no longer verified\n", *email)
		return
	}
	fmt.Printf("User %s is now verified\n", *email)
}
