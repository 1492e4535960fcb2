package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"affiliate-engine/internal/auth"
	"affiliate-engine/internal/config"
	"affiliate-engine/internal/logging"
)

// Mints a bearer token signed with JWT_SECRET, for operators and local testing.
// End-user tokens are issued by the identity service.
func main() {
	userID := flag.Uint("user", 0, "user ID to put in the token")
	name := flag.String("name", "", "display name claim")
	role := flag.String("role", "", "role claim, e.g. admin")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	logger, err := logging.New(false)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if *userID == 0 {
		logger.Fatal("-user is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	auth.InitJWT(cfg.App.JWTSecret)

	token, err := auth.GenerateToken(*userID, *name, *role, *ttl)
	if err != nil {
		logger.Fatal("failed to generate token", zap.Error(err))
	}
	fmt.Fprintln(os.Stdout, token)
}
