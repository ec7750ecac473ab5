package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/secondchance-api/internal/domain"
	"github.com/secondchance-api/internal/infrastructure/smtp"
	"github.com/secondchance-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFirstName    = "first_name"
	fieldLastName     = "last_name"
	fieldUserName     = "user_name"
	fieldPasswordHash = "password_hash"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (token string, err error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	// UpdateProfile applies the allow-listed fields to the user identified by
	// email and re-issues a token. callerID is the authenticated token
	// subject; it must match the target user.
	UpdateProfile(ctx context.Context, callerID, email string, req domain.UpdateProfileRequest) (string, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type tokenSigner interface {
	Sign(userID string) (string, error)
}

type service struct {
	users  userStore
	signer tokenSigner
	mailer smtp.Mailer
}

func NewService(users userStore, signer tokenSigner, mailer smtp.Mailer) Service {
	return &service{users: users, signer: signer, mailer: mailer}
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (string, error) {
	// Check-then-act: a concurrent registration with the same email can pass
	// this lookup before either insert lands. The store has no uniqueness
	// constraint on the email GSI.
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return "", fmt.Errorf("email already exists: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	u := &domain.User{
		UserID:       id.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Put(ctx, u); err != nil {
		return "", err
	}

	if s.mailer != nil {
		if err := s.mailer.SendEmail(u.Email, "Welcome to SecondChance",
			"Your account is ready. Start browsing donated items near you."); err != nil {
			slog.Warn("welcome email not sent", "email", u.Email, "err", err)
		}
	}

	return s.signer.Sign(u.UserID)
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	// A wrong password also maps to 404, matching the documented contract.
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("wrong password: %w", domain.ErrNotFound)
	}
	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) UpdateProfile(ctx context.Context, callerID, email string, req domain.UpdateProfileRequest) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.UserID != callerID {
		return "", fmt.Errorf("token subject does not match target user: %w", domain.ErrForbidden)
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates[fieldFirstName] = *req.FirstName
	}
	if req.LastName != nil {
		updates[fieldLastName] = *req.LastName
	}
	if req.UserName != nil {
		updates[fieldUserName] = *req.UserName
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		updates[fieldPasswordHash] = string(hash)
	}

	// The repo stamps updated_at, so an empty allow-list still refreshes it,
	// matching the original endpoint's unconditional merge-and-stamp.
	if err := s.users.Update(ctx, u.UserID, updates); err != nil {
		return "", err
	}
	return s.signer.Sign(u.UserID)
}
