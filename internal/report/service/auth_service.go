package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/config"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/middleware"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// ErrInvalidCredentials wrong login or password
var ErrInvalidCredentials = errors.New("invalid credentials")

const refreshKeyPrefix = "refresh:"

// AuthService login, token issue and refresh. Refresh tokens are opaque
// ids stored in Redis; access tokens are signed JWTs.
type AuthService struct {
	users *repository.UserRepository
	rdb   *redis.Client
	cfg   *config.Config
}

func NewAuthService(users *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{users: users, rdb: rdb, cfg: cfg}
}

// TokenPair token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login authenticates by employee code or email.
func (s *AuthService) Login(ctx context.Context, login, password string) (*entity.User, *TokenPair, error) {
	user, err := s.users.FindByEmployeeCode(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.users.FindByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the old
// one out of Redis.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if s.rdb == nil {
		return nil, ErrInvalidCredentials
	}

	userID, err := s.rdb.Get(ctx, refreshKeyPrefix+refreshToken).Result()
	if err != nil || userID == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	s.rdb.Del(ctx, refreshKeyPrefix+refreshToken)
	return s.generateTokenPair(ctx, user)
}

// Logout revokes a refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if s.rdb != nil && refreshToken != "" {
		s.rdb.Del(ctx, refreshKeyPrefix+refreshToken)
	}
}

// Me returns the caller's record with the full organizational chain.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	expiresAt := time.Now().Add(s.cfg.JWT.AccessTokenExpire)
	claims := &middleware.JWTClaims{
		UserID:       user.ID,
		EmployeeCode: user.EmployeeCode,
		Role:         user.Role,
		OfficeID:     user.OfficeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.JWT.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.New().String()
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, refreshKeyPrefix+refreshToken, user.ID, s.cfg.JWT.RefreshTokenExpire).Err(); err != nil {
			return nil, err
		}
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
