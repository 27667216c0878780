package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"parceltrack-service/internal/infrastructure/auth"
	"parceltrack-service/internal/infrastructure/config"
	"parceltrack-service/pkg/logger"
)

// Mints a Firebase custom token for a UID so requests can be exercised
// locally without the web client. Exchange the printed token for an ID
// token via the Firebase Auth REST API, then pass that as the bearer.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: get_token <uid>")
	}
	uid := os.Args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	verifier, err := auth.NewFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID, logger.NewLogger())
	if err != nil {
		log.Fatalf("failed to initialize firebase: %v", err)
	}

	token, err := verifier.CustomToken(ctx, uid)
	if err != nil {
		log.Fatalf("failed to mint custom token: %v", err)
	}

	fmt.Printf("\nCustom Token: %s\n\n", token)
}
