package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/makpal80/avtoray/internal/models"
	"github.com/makpal80/avtoray/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	MaxLoginFailures  = 5
	LoginFailureTTL   = 15 * time.Minute
	minPasswordLength = 6
	maxPhoneDigits    = 11
)

type RegisterInput struct {
	Phone    string
	Password string
	Name     string
	CarBrand string
}

type AuthService struct {
	users   repository.UserRepo
	hasher  PasswordHasher
	tokens  TokenProvider
	limiter RateLimiter // может быть nil

	accessTTL time.Duration
	now       func() time.Time

	log *zap.Logger
}

func NewAuthService(
	users repository.UserRepo,
	hasher PasswordHasher,
	tokens TokenProvider,
	limiter RateLimiter,
	accessTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		limiter:   limiter,
		accessTTL: accessTTL,
		now:       time.Now,
		log:       log,
	}
}

// NormalizePhone keeps digits only; 10 or 11 digits are accepted.
func NormalizePhone(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	p := b.String()
	if len(p) < 10 || len(p) > maxPhoneDigits {
		return "", false
	}
	return p, true
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	phone, ok := NormalizePhone(in.Phone)
	name := strings.TrimSpace(in.Name)
	if !ok || name == "" || len(in.Password) < minPasswordLength {
		return nil, ErrInvalidRegistration
	}

	exists, err := s.users.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPhoneExists
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &models.User{
		ID:        uuid.New(),
		Phone:     phone,
		Password:  hash,
		Name:      name,
		CarBrand:  strings.TrimSpace(in.CarBrand),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("Пользователь зарегистрирован", zap.String("user_id", u.ID.String()))
	return u, nil
}

// Login returns a bearer access token. Repeated failures for one phone are
// throttled when a limiter is configured.
func (s *AuthService) Login(ctx context.Context, phone, password string) (string, time.Time, error) {
	normalized, ok := NormalizePhone(phone)
	if !ok {
		return "", time.Time{}, ErrInvalidCredentials
	}
	key := "login:fail:" + normalized

	if s.limiter != nil {
		n, err := s.limiter.Count(ctx, key)
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.Error(err))
		} else if n >= MaxLoginFailures {
			return "", time.Time{}, ErrTooManyRequests
		}
	}

	user, err := s.users.GetByPhone(ctx, normalized)
	if err != nil {
		return "", time.Time{}, err
	}
	if user == nil || !s.hasher.Compare(user.Password, password) {
		s.recordFailure(ctx, key)
		return "", time.Time{}, ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			s.log.Warn("rate limiter reset failed", zap.Error(err))
		}
	}

	return s.tokens.SignAccess(ctx, user.ID, user.IsAdmin, s.accessTTL)
}

func (s *AuthService) recordFailure(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if _, err := s.limiter.Hit(ctx, key, LoginFailureTTL); err != nil {
		s.log.Warn("rate limiter hit failed", zap.Error(err))
	}
}

// Authenticate verifies a bearer token and returns its identity. The admin flag
// is taken from the current user row, so a demoted admin loses access at once.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	c, err := s.tokens.ParseAndValidateAccess(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	u, err := s.users.GetByID(ctx, c.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	if u.IsAdmin != c.IsAdmin {
		s.log.Info("token role differs from stored role",
			zap.String("user_id", u.ID.String()), zap.Bool("is_admin", u.IsAdmin))
	}
	c.IsAdmin = u.IsAdmin
	return c, nil
}

func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// SetDiscount overrides a customer's loyalty discount.
func (s *AuthService) SetDiscount(ctx context.Context, userID uuid.UUID, percent int) (*models.User, error) {
	adminID, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !validPercent(percent) {
		return nil, ErrInvalidDiscount
	}
	ok, err := s.users.UpdateDiscount(ctx, userID, percent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	s.log.Info("Скидка клиента изменена",
		zap.String("user_id", userID.String()),
		zap.String("admin_id", adminID.String()),
		zap.Int("discount_percent", percent))
	return s.users.GetByID(ctx, userID)
}
