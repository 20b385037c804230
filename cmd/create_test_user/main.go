package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"taskboard/internal/db"
	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/joho/godotenv"
)

// Seeds a user (or reuses an existing one with the same email) and prints a
// bearer token for manual API testing.
func main() {
	name := flag.String("name", "Tester", "display name")
	email := flag.String("email", "tester@example.com", "login email")
	password := flag.String("password", "secret123", "password for a new user")
	flag.Parse()

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	service.InitJWT(os.Getenv("JWT_SECRET"), time.Hour)

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	auth := service.NewAuthService(users, service.NewAuditService(repository.NewAuditRepository(pool)))

	u, token, err := auth.Register(ctx, service.RegisterInput{Name: *name, Email: *email, Password: *password})
	if errors.Is(err, domain.ErrConflict) {
		u, token, err = auth.Login(ctx, service.LoginInput{Email: *email, Password: *password})
	}
	if err != nil {
		logger.Fatal("seed user failed", "error", err)
	}

	logger.Info("user ready", "user_id", u.ID, "email", u.Email)
	fmt.Printf("token=%s\n", token)
}
