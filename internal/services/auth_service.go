package services

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"threadline/config"
	"threadline/internal/supabase"
	threadline_errors "threadline/pkg/errors"
)

// AuthService validates Supabase access tokens. When the project JWT secret
// is configured tokens are verified locally (HS256); otherwise validation is
// a round trip to the GoTrue API through the shared anon client.
type AuthService struct {
	cfg       *config.Config
	jwtSecret []byte
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:       cfg,
		jwtSecret: []byte(cfg.SupabaseJWTSecret),
	}
}

type AuthedUser struct {
	ID    uuid.UUID
	Email string
}

type AccessClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (AuthedUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return AuthedUser{}, threadline_errors.ErrUnauthorized
	}
	if len(s.jwtSecret) > 0 {
		return s.authenticateLocal(token)
	}
	return s.authenticateRemote(token)
}

func (s *AuthService) authenticateLocal(token string) (AuthedUser, error) {
	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, threadline_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AuthedUser{}, threadline_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AuthedUser{}, threadline_errors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return AuthedUser{}, threadline_errors.ErrUnauthorized
	}

	return AuthedUser{ID: userID, Email: claims.Email}, nil
}

func (s *AuthService) authenticateRemote(token string) (AuthedUser, error) {
	client, err := supabase.Anon(s.cfg)
	if err != nil {
		return AuthedUser{}, err
	}
	user, err := client.Auth.WithToken(token).GetUser()
	if err != nil {
		return AuthedUser{}, threadline_errors.ErrUnauthorized
	}
	return AuthedUser{ID: user.ID, Email: user.Email}, nil
}

type ctxKey string

var (
	userIDKey ctxKey = "user_id"
	emailKey  ctxKey = "email"
)

func WithUserContext(ctx context.Context, u AuthedUser) context.Context {
	ctx = context.WithValue(ctx, userIDKey, u.ID)
	if u.Email != "" {
		ctx = context.WithValue(ctx, emailKey, u.Email)
	}
	return ctx
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func EmailFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(emailKey)
	if value == nil {
		return "", false
	}
	email, ok := value.(string)
	return email, ok
}
