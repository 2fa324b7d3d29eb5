package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrAdminDisabled      = errors.New("admin access is not configured")
)

const (
	AdminSubject  = "admin"
	AdminRole     = "admin"
	tokenLifetime = 24 * time.Hour
)

// AuthService guards the admin API with a single bcrypt-hashed password.
type AuthService struct {
	passwordHash []byte
	secret       []byte
	now          func() time.Time
}

func NewAuthService(passwordHash, secret string) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		now:          time.Now,
	}
}

func (s *AuthService) Authenticate(password string) error {
	if len(s.passwordHash) == 0 {
		return ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *AuthService) IssueToken() (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  AdminSubject,
		"role": AdminRole,
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(tokenLifetime)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// HashPassword is used to produce ADMIN_PASSWORD_HASH values.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
