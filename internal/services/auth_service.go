package services

import (
	"context"
	"strings"
	"time"

	"github.com/faturaflow/faturaflow-api/internal/models"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

// IssuedToken is a signed access token
type IssuedToken struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AuthService resolves authenticated callers and mints development tokens.
// Credentials are verified by the identity provider that issues the JWT.
type AuthService struct {
	userRepo        repository.UserRepository
	secret          []byte
	expirationHours int
	now             func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, secret string, expirationHours int) *AuthService {
	if expirationHours <= 0 {
		expirationHours = 24
	}
	return &AuthService{
		userRepo:        userRepo,
		secret:          []byte(secret),
		expirationHours: expirationHours,
		now:             time.Now,
	}
}

// CurrentUser loads the caller named by a validated token. The stored role
// is authoritative; the token only identifies the user.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errorf(ErrUnauthenticated, "user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// Provision creates or updates a user by email
func (s *AuthService) Provision(ctx context.Context, name, email string, role models.Role) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errorf(ErrValidation, "a valid email is required")
	}
	role = models.Role(strings.ToUpper(string(role)))
	if !role.Valid() {
		return nil, errorf(ErrValidation, "unknown role %q", role)
	}
	user := &models.User{Name: strings.TrimSpace(name), Email: email, Role: role}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken signs an HS256 access token for user
func (s *AuthService) IssueToken(user *models.User) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(s.expirationHours) * time.Hour)
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}
