package biz

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/arenax/arenax/internal/log"
)

const (
	adminSubject    = "organizer"
	defaultTokenTTL = 12 * time.Hour
)

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hex.EncodeToString(hashed), nil
}

// VerifyPassword verifies a password against a hash produced by HashPassword.
func VerifyPassword(hashedPassword, password string) error {
	decoded, err := hex.DecodeString(hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to decode hashed password: %w", err)
	}

	return bcrypt.CompareHashAndPassword(decoded, []byte(password))
}

type AuthServiceParams struct {
	fx.In

	Config Config
}

// AuthService guards the organizer endpoints with a password sign-in and
// HS256 tokens.
type AuthService struct {
	passwordHash string
	secretKey    []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthService(params AuthServiceParams) *AuthService {
	return &AuthService{
		passwordHash: params.Config.Admin.PasswordHash,
		secretKey:    []byte(params.Config.Admin.SecretKey),
		ttl:          lo.CoalesceOrEmpty(params.Config.Admin.TokenTTL, defaultTokenTTL),
		now:          time.Now,
	}
}

func (s *AuthService) Configured() bool {
	return s.passwordHash != "" && len(s.secretKey) > 0
}

// SignIn checks the organizer password and issues a token.
func (s *AuthService) SignIn(ctx context.Context, password string) (string, error) {
	if !s.Configured() {
		return "", ErrAdminNotConfigured
	}

	if err := VerifyPassword(s.passwordHash, password); err != nil {
		log.Warn(ctx, "admin sign-in rejected")
		return "", ErrInvalidPassword
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return signed, nil
}

// AuthenticateJWTToken validates a token issued by SignIn.
func (s *AuthService) AuthenticateJWTToken(ctx context.Context, tokenString string) error {
	if !s.Configured() {
		return ErrAdminNotConfigured
	}

	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method: %v", ErrInvalidJWT, token.Header["alg"])
		}

		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return fmt.Errorf("%w: failed to parse jwt token: %w", ErrInvalidJWT, err)
	}

	if !token.Valid || claims.Subject != adminSubject {
		return fmt.Errorf("%w: invalid token claims", ErrInvalidJWT)
	}

	return nil
}
