package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

type AuthService struct {
	users UserStore
	audit *AuditService
}

func NewAuthService(users UserStore, audit *AuditService) *AuthService {
	return &AuthService{users: users, audit: audit}
}

// Register creates the user and returns it with a fresh bearer token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, "", domain.Invalid("please provide a name")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, "", err
	}
	if len(in.Password) < minPasswordLen {
		return nil, "", domain.Invalid("password must be at least %d characters", minPasswordLen)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", domain.Conflict("user already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = domain.DefaultRole
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(u.ID)
	if err != nil {
		return nil, "", err
	}

	logger.WithContext(ctx).Info("user registered", "user_id", u.ID)
	s.audit.LogAuth(ctx, u.ID, domain.AuditActionRegister)
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, "", domain.Invalid("please provide an email and password")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.Unauthenticated("invalid credentials")
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", domain.Unauthenticated("invalid credentials")
	}

	token, err := GenerateJWT(u.ID)
	if err != nil {
		return nil, "", err
	}

	s.audit.LogAuth(ctx, u.ID, domain.AuditActionLogin)
	return u, token, nil
}

func (s *AuthService) Me(ctx context.Context, actorID string) (*domain.User, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, actorID)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.Invalid("please provide an email")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.Invalid("please provide a valid email")
	}
	return email, nil
}
