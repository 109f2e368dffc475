/*
Package auth 顾客注册/登录与管理员登录

会话以签名令牌的形式下发，控制器负责写入 HTTP-only Cookie。
*/
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	appuser "storefront/application/user"
	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/domain/user"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(id identity.Identity, ttl time.Duration) (string, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type Settings struct {
	UserTokenTTL      time.Duration
	AdminTokenTTL     time.Duration
	AdminUsername     string
	AdminPasswordHash string
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name" binding:"required,max=100"`
	Phone    string `json:"phone" binding:"max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is a freshly issued token plus the identity it encodes.
type Session struct {
	Token    string
	TTL      time.Duration
	Identity identity.Identity
	User     *appuser.UserResponse
}

type Service struct {
	userRepo   user.Repository
	uowFactory shared.UnitOfWorkFactory
	tokens     TokenIssuer
	hasher     PasswordHasher
	settings   Settings
	now        func() time.Time
}

func NewService(userRepo user.Repository, uowFactory shared.UnitOfWorkFactory, tokens TokenIssuer, hasher PasswordHasher, settings Settings) *Service {
	return &Service{
		userRepo:   userRepo,
		uowFactory: uowFactory,
		tokens:     tokens,
		hasher:     hasher,
		settings:   settings,
		now:        time.Now,
	}
}

// Signup registers an email customer and signs them in.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	if existing, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, user.NewEmailAlreadyExistsError(req.Email)
	} else if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u, err := user.NewUser(user.RegisterOptions{
		Email:        req.Email,
		Name:         req.Name,
		Phone:        req.Phone,
		Provider:     user.ProviderEmail,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, u); err != nil {
			return err
		}
		uow.RegisterNew(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User registered", zap.String("user_id", u.ID()))
	return s.customerSession(u)
}

// Login checks email credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	u, err := s.userRepo.FindByEmail(ctx, req.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperrors.InvalidCredentials()
	}
	if err != nil {
		return nil, err
	}
	if u.Provider() != user.ProviderEmail || s.hasher.Compare(u.PasswordHash(), req.Password) != nil {
		return nil, apperrors.InvalidCredentials()
	}
	if err := u.EnsureActive(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		u.RecordLogin(s.now())
		if err := s.userRepo.Save(ctx, u); err != nil {
			return err
		}
		uow.RegisterDirty(u)
		return nil
	})
	if err != nil {
		// 登录时间只是信息字段，并发冲突不影响登录
		if !errors.Is(err, user.ErrConcurrentModification) {
			return nil, err
		}
		logger.FromContext(ctx).Warn("Skipped last login update", zap.String("user_id", u.ID()), zap.Error(err))
	}

	return s.customerSession(u)
}

// AdminLogin checks the configured back-office credentials.
func (s *Service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*Session, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.settings.AdminUsername)) == 1
	passwordErr := s.hasher.Compare(s.settings.AdminPasswordHash, req.Password)
	if !usernameOK || passwordErr != nil {
		logger.FromContext(ctx).Warn("Admin login rejected", zap.String("username", req.Username))
		return nil, apperrors.InvalidCredentials()
	}

	id := identity.Identity{SubjectID: s.settings.AdminUsername, Role: identity.RoleAdmin}
	token, err := s.tokens.Issue(id, s.settings.AdminTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, TTL: s.settings.AdminTokenTTL, Identity: id}, nil
}

func (s *Service) customerSession(u *user.User) (*Session, error) {
	id := identity.Identity{SubjectID: u.ID(), Role: identity.RoleCustomer, Email: u.Email().Value()}
	token, err := s.tokens.Issue(id, s.settings.UserTokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, TTL: s.settings.UserTokenTTL, Identity: id, User: appuser.ToResponse(u)}, nil
}
