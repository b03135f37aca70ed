package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/sudo-init-do/rentaskill/internal/models"
)

func main() {
	userID := flag.String("user", "", "user id to put in the sub claim")
	userType := flag.String("type", "", "optional user type: seeker, provider or both")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatalf("usage: session_token -user <uuid> [-type provider] [-ttl 24h]")
	}
	if *userType != "" && !models.ValidUserType(*userType) {
		log.Fatalf("invalid user type %q", *userType)
	}

	_ = godotenv.Load()
	secret := os.Getenv("SUPABASE_JWT_SECRET")
	if secret == "" {
		log.Fatalf("SUPABASE_JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"sub": *userID,
		"exp": time.Now().Add(*ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	if *userType != "" {
		claims["user_metadata"] = map[string]any{"user_type": *userType}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(token)
}
