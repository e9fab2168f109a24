package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "campuscanteen-auth"

// AuthService handles signup, login and JWT token management
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*models.AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*models.AuthResponse, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	// GetCaller loads the user behind a verified token.
	GetCaller(ctx context.Context, userID uuid.UUID) (*models.Caller, error)
	GetUser(ctx context.Context, caller *models.Caller) (*models.User, error)
}

type SignupInput struct {
	Name      string
	Email     string
	Password  string
	Role      models.Role
	CanteenID *uuid.UUID
}

type LoginInput struct {
	Email    string
	Password string
	Role     models.Role
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	UserID string      `json:"userId"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo    repositories.UserRepository
	canteenRepo repositories.CanteenRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo repositories.UserRepository, canteenRepo repositories.CanteenRepository, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:    userRepo,
		canteenRepo: canteenRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

func (s *authService) Signup(ctx context.Context, input SignupInput) (*models.AuthResponse, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	switch {
	case name == "":
		return nil, errs.NewRequiredError("name")
	case email == "":
		return nil, errs.NewRequiredError("email")
	case input.Password == "":
		return nil, errs.NewRequiredError("password")
	}
	if !input.Role.IsValid() {
		return nil, errs.NewValidationError(errs.CodeInvalidRole, "role", "Invalid role")
	}

	if input.Role == models.RoleKitchen {
		if input.CanteenID == nil || *input.CanteenID == uuid.Nil {
			return nil, errs.NewValidationError(errs.CodeRequired, "canteenId", "canteenId is required for kitchen users")
		}
		canteen, err := s.canteenRepo.GetByID(ctx, *input.CanteenID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, errs.NewDependencyError("get canteen", err)
		}
		if canteen == nil || !canteen.Active {
			return nil, errs.NewValidationError(errs.CodeInvalidCanteen, "canteenId", "Invalid canteen")
		}
	} else if input.CanteenID != nil {
		return nil, errs.NewValidationError(errs.CodeInvalidValue, "canteenId", "canteenId is only allowed for kitchen role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         input.Role,
		CanteenID:    input.CanteenID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, errs.NewValidationError(errs.CodeDuplicate, "email", "Email already registered")
		}
		return nil, errs.NewDependencyError("create user", err)
	}

	log.Infof("Registered %s user %s", user.Role, user.ID)
	return s.respond(user)
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.AuthResponse, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, errs.NewAuthenticationError("Invalid credentials")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errs.NewAuthenticationError("Invalid credentials")
	}
	if err != nil {
		return nil, errs.NewDependencyError("get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errs.NewAuthenticationError("Invalid credentials")
	}
	if input.Role != "" && input.Role != user.Role {
		return nil, errs.NewUnauthorizedError("Invalid role")
	}

	return s.respond(user)
}

func (s *authService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(s.tokenTTL.Seconds()),
		User:      user,
	}, nil
}

// GenerateToken signs an HS256 token carrying the user id and role.
func (s *authService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: user.ID.String(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errs.NewAuthenticationError("Invalid token")
	}

	if claims, ok := parsed.Claims.(*TokenClaims); ok && parsed.Valid {
		return claims, nil
	}
	return nil, errs.NewAuthenticationError("Invalid token")
}

func (s *authService) GetCaller(ctx context.Context, userID uuid.UUID) (*models.Caller, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errs.NewAuthenticationError("User no longer exists")
	}
	if err != nil {
		return nil, errs.NewDependencyError("get user", err)
	}
	return user.Caller(), nil
}

func (s *authService) GetUser(ctx context.Context, caller *models.Caller) (*models.User, error) {
	if caller == nil {
		return nil, errs.NewAuthenticationError("")
	}
	user, err := s.userRepo.GetByID(ctx, caller.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errs.NewNotFoundError("User", caller.UserID)
	}
	if err != nil {
		return nil, errs.NewDependencyError("get user", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
