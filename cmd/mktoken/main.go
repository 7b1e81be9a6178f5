// mktoken signs a development bearer token for a given subject, standing in
// for the external identity provider during local work.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pulsechat/pulse-backend/internal/auth"
)

func main() {
	_ = godotenv.Load()

	sub := flag.String("sub", "", "subject UUID (random when empty)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	subject := *sub
	if subject == "" {
		subject = uuid.NewString()
	} else if _, err := uuid.Parse(subject); err != nil {
		log.Fatalf("subject must be a UUID: %v", err)
	}

	token, err := auth.SignJWT(subject, secret, *ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}

	fmt.Printf("subject: %s\ntoken:   %s\n", subject, token)
}
