package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/faras-store/backend/models"
	"github.com/faras-store/backend/repository"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService handles registration, login and token issuance.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	jwtExpiry time.Duration
	logger    *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiry time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, *ServiceError) {
	if len(req.Password) < 8 {
		return nil, newServiceError(400, "Password must be at least 8 characters long", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, newServiceError(409, "Email is already registered", nil)
	} else if err != repository.ErrUserNotFound {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, newServiceError(500, "Failed to register", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, newServiceError(500, "Failed to register", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, newServiceError(409, "Email is already registered", err)
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, newServiceError(500, "Failed to register", err)
	}

	token, svcErr := s.issueToken(user)
	if svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, *ServiceError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, newServiceError(401, "Invalid email or password", nil)
		}
		s.logger.Error("Failed to fetch user", zap.Error(err))
		return nil, newServiceError(500, "Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, newServiceError(401, "Invalid email or password", nil)
	}

	token, svcErr := s.issueToken(user)
	if svcErr != nil {
		return nil, svcErr
	}

	return &AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) issueToken(user *models.User) (string, *ServiceError) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"name":    user.Name,
		"role":    user.Role,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", newServiceError(500, "Failed to issue token", err)
	}
	return signed, nil
}
