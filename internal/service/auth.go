package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/med_clinic/internal/hash"
	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/repo"
	"github.com/Skotchmaster/med_clinic/internal/tokens"
)

const minPasswordLen = 6

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

type LoginResult struct {
	User    *models.User
	Tokens  *tokens.Pair
	IsAdmin bool
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", ErrValidation)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, fmt.Errorf("invalid email: %w", ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	if _, err := s.Repo.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	u, err := s.Repo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(u.PasswordHash, password) {
		l.Warn("login_rejected", "reason", "bad password", "user_id", u.ID)
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthorized)
	}

	pair, err := s.issue(ctx, s.Repo, u)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Tokens: pair, IsAdmin: u.Role == models.RoleAdmin}, nil
}

// Refresh revokes refreshToken and issues a new pair carrying the user's current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh subject: %w", ErrUnauthorized)
	}
	u, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found: %w", ErrUnauthorized)
		}
		return nil, err
	}

	pair, next, err := s.newPair(u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, next); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("%s: %w", err.Error(), ErrUnauthorized)
		}
		return nil, err
	}
	return pair, nil
}

// Reissue mints a fresh pair for userID, used after a role change.
func (s *AuthService) Reissue(ctx context.Context, userID uuid.UUID) (*tokens.Pair, error) {
	u, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return s.issue(ctx, s.Repo, u)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(refreshToken))
}

func (s *AuthService) Session(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session user gone: %w", ErrUnauthorized)
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issue(ctx context.Context, r *repo.GormRepo, u *models.User) (*tokens.Pair, error) {
	pair, stored, err := s.newPair(u)
	if err != nil {
		return nil, err
	}
	if err := r.AddRefreshToken(ctx, stored); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *AuthService) newPair(u *models.User) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	access, err := tokens.NewAccessToken(s.JWTSecret, u.ID.String(), u.Role, accessExp)
	if err != nil {
		return nil, nil, err
	}
	refresh, jti, err := tokens.NewRefreshToken(s.RefreshSecret, u.ID.String(), refreshExp)
	if err != nil {
		return nil, nil, err
	}

	pair := &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		JTI:          jti,
	}
	stored := &models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		UserID:    u.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return pair, stored, nil
}
