package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"equiptrack/internal/metrics"
	"equiptrack/internal/models"
	"equiptrack/internal/repository"
)

// TokenTTL bounds both the JWT expiry and the session cookie lifetime.
const TokenTTL = 12 * time.Hour

// Landing views per role. Scheduling-only accounts skip the workflow views
// and open on search.
const (
	landingEquipments = "/api/v1/equipamentos"
	landingSearch     = "/api/v1/equipamentos/search"
)

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService validates credentials and mints/parses session tokens.
type AuthService struct {
	users      repository.Users
	audit      repository.Audit
	signingKey []byte
}

func NewAuthService(users repository.Users, audit repository.Audit, signingKey string) *AuthService {
	return &AuthService{users: users, audit: audit, signingKey: []byte(signingKey)}
}

// Claims defines the session JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SignIn checks the credentials and returns a session. Failed attempts land
// in the application log; which part of the credential pair was wrong is not
// revealed to the caller.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		metrics.SignInsTotal.WithLabelValues("failed").Inc()
		_ = s.audit.Append(ctx, models.AuditEntry{
			Level:   models.LevelWarn,
			Message: fmt.Sprintf("sign-in failed for user %q", username),
		})
		return nil, ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		metrics.SignInsTotal.WithLabelValues("failed").Inc()
		_ = s.audit.Append(ctx, models.AuditEntry{
			Level:   models.LevelWarn,
			Message: fmt.Sprintf("sign-in failed for user %q", u.Username),
			UserID:  &u.ID,
		})
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.SignInsTotal.WithLabelValues("ok").Inc()

	if err := s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelInfo,
		Message: fmt.Sprintf("user %q signed in", u.Username),
		UserID:  &u.ID,
	}); err != nil {
		return nil, err
	}

	return &Session{
		Token:   token,
		Role:    u.Role,
		Landing: landingFor(u.Role),
	}, nil
}

// SignOut appends the departure to the application log. The token itself is
// stateless and stays valid until expiry.
func (s *AuthService) SignOut(ctx context.Context, ident Identity) error {
	return s.audit.Append(ctx, models.AuditEntry{
		Level:   models.LevelInfo,
		Message: fmt.Sprintf("user %q signed out", ident.Username),
		UserID:  actorRef(ident),
	})
}

// ParseToken verifies the signature and expiry and returns the caller's
// identity.
func (s *AuthService) ParseToken(accessToken string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}

func landingFor(role models.Role) string {
	if role == models.RoleScheduler {
		return landingSearch
	}
	return landingEquipments
}

// helper: issue a signed JWT for a user
func (s *AuthService) issueToken(u *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	})
	return token.SignedString(s.signingKey)
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
