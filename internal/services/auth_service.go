package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/config"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/ecociudad/ecociudad-backend/internal/textutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

// AuthService is the identity provider: accounts, sessions and roles.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// SignUp creates a citizen profile with a zero balance and opens a session.
func (s *AuthService) SignUp(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	fullName := textutil.Plain(req.FullName)
	if email == "" || len(req.Password) < 8 {
		return nil, validationf("email required and password must be at least 8 characters")
	}
	if fullName == "" {
		return nil, validationf("full name is required")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.Profile{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, backend(err, "profile")
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := models.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         models.RoleCitizen,
		Points:       0,
	}
	if err := db.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, backend(err, "profile")
	}

	return s.generateTokenPair(ctx, &profile)
}

func (s *AuthService) SignIn(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, backend(err, "profile")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, &profile)
}

// Refresh exchanges a refresh token for a new pair. The old token is revoked
// whether or not it had expired.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	db := s.db.WithContext(ctx)
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	err := db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, backend(err, "refresh token")
	}

	// Conditional revoke so two concurrent refreshes cannot both succeed.
	result := db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", stored.ID, false).
		Update("revoked", true)
	if result.Error != nil {
		return nil, backend(result.Error, "refresh token")
	}
	if result.RowsAffected == 0 || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	var profile models.Profile
	if err := db.First(&profile, "id = ?", stored.UserID).Error; err != nil {
		return nil, backend(err, "profile")
	}

	return s.generateTokenPair(ctx, &profile)
}

// SignOut revokes the refresh token. Unknown tokens are not an error.
func (s *AuthService) SignOut(ctx context.Context, req *dto.LogoutRequest) error {
	err := s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashToken(req.RefreshToken)).
		Update("revoked", true).Error
	return backend(err, "refresh token")
}

// Me restores the session for an authenticated principal.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, backend(err, "profile")
	}
	return &profile, nil
}

// SetRole changes another account's role. Only super admins may do this and
// never on their own account.
func (s *AuthService) SetRole(ctx context.Context, actor authz.Principal, userID uuid.UUID, role models.Role) (*models.Profile, error) {
	if !authz.CanManageRoles(actor) {
		return nil, forbiddenf("only super admins can change roles")
	}
	if actor.ID == userID {
		return nil, forbiddenf("cannot change your own role")
	}
	if !role.Valid() {
		return nil, validationf("unknown role %q", role)
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&models.Profile{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return nil, backend(result.Error, "profile")
	}
	if result.RowsAffected == 0 {
		return nil, notFound("profile")
	}
	return s.Me(ctx, userID)
}

func (s *AuthService) generateTokenPair(ctx context.Context, profile *models.Profile) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(profile)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, profile)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewSessionResponse(profile),
	}, nil
}

func (s *AuthService) generateAccessToken(profile *models.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   profile.ID.String(),
		"email": profile.Email,
		"role":  string(profile.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, profile *models.Profile) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    profile.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", backend(err, "refresh token")
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
