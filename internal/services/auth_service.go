package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"tunebox/internal/apperr"
	"tunebox/internal/auth"
	"tunebox/internal/models"
	"tunebox/internal/notify"
	"tunebox/internal/repositories"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Nickname string
}

// RegisterOptions override the defaults of a new account. The public endpoint always
// uses the zero value; the admin CLI may activate or promote accounts directly.
type RegisterOptions struct {
	Activate bool
	Staff    bool
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordPolicy
	notifier  notify.Notifier
	siteURL   string
	logger    *log.Logger
	hashCost  int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenService, notifier notify.Notifier, siteURL string, logger *log.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		passwords: auth.DefaultPasswordPolicy(),
		notifier:  notifier,
		siteURL:   strings.TrimRight(siteURL, "/"),
		logger:    logger,
		hashCost:  bcrypt.DefaultCost,
	}
}

// WithHashCost sets the bcrypt cost used for new password hashes.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// Register creates an account. Unless opts.Activate is set the account starts inactive
// and a verification link is sent; a failed notification is logged and does not undo
// the registration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, opts RegisterOptions) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := s.passwords.Check(in.Password, userAttributes(in.Username, in.Email, in.Nickname)...); err != nil {
		return nil, err
	}

	if err := ensureUnique(ctx, s.userRepo, "", in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Nickname: in.Nickname,
		IsActive: opts.Activate,
		IsStaff:  opts.Staff,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if !user.IsActive {
		s.deliverVerification(ctx, user)
	}
	return user, nil
}

// SendVerification mints a fresh verification link for an inactive user.
func (s *AuthService) SendVerification(ctx context.Context, user *models.User) error {
	if user.IsActive {
		return apperr.Validation("email is already verified")
	}
	s.deliverVerification(ctx, user)
	return nil
}

// ResendVerification sends a fresh link to the account identified by its credentials.
// Inactive accounts cannot hold a token, so the password stands in for one here; the
// active flag is not checked until SendVerification.
func (s *AuthService) ResendVerification(ctx context.Context, username, password string) error {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return apperr.ErrInvalidCredentials
	}
	return s.SendVerification(ctx, user)
}

// VerifyEmail activates the account bound to token. It reports whether the account was
// already active; verifying twice is not an error.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (alreadyVerified bool, err error) {
	claims, err := s.tokens.Verify(auth.EmailVerification, token)
	if err != nil {
		return false, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return false, err
	}
	if user.IsActive {
		return true, nil
	}

	user.IsActive = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return false, err
	}
	s.logger.Info("email verified", "user_id", user.ID)
	return false, nil
}

// Authenticate checks credentials and issues an access and a refresh token. Unknown
// users, wrong passwords and inactive accounts are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil || !user.IsActive {
		return nil, apperr.ErrInvalidCredentials
	}

	access, _, err := s.tokens.Issue(auth.AccessToken, user.ID)
	if err != nil {
		return nil, err
	}
	refresh, _, err := s.tokens.Issue(auth.RefreshToken, user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new access token. The bound user must still
// exist and be active.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(auth.RefreshToken, refreshToken)
	if err != nil {
		return "", err
	}
	if _, err := s.activeUser(ctx, claims.UserID); err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			return "", apperr.ErrInvalidToken
		}
		return "", err
	}

	access, _, err := s.tokens.Issue(auth.AccessToken, claims.UserID)
	if err != nil {
		return "", err
	}
	return access, nil
}

// UserFromAccessToken resolves the active user an access token was issued to.
func (s *AuthService) UserFromAccessToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Verify(auth.AccessToken, token)
	if err != nil {
		return nil, &apperr.Error{Code: apperr.CodeUnauthorized, Message: "invalid or expired token", Err: err}
	}
	return s.activeUser(ctx, claims.UserID)
}

// ChangePassword replaces the password of user after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, current, next string) error {
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return apperr.ErrInvalidCredentials
	}
	if err := s.passwords.Check(next, userAttributes(user.Username, user.Email, user.Nickname)...); err != nil {
		return err
	}

	hash, err := s.hash(next)
	if err != nil {
		return err
	}
	user.Password = hash
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) activeUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}

func (s *AuthService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return string(hashed), nil
}

func (s *AuthService) deliverVerification(ctx context.Context, user *models.User) {
	token, _, err := s.tokens.Issue(auth.EmailVerification, user.ID)
	if err != nil {
		s.logger.Error("failed to issue verification token", "user_id", user.ID, "err", err)
		return
	}
	link := s.siteURL + "/api/auth/verify?token=" + url.QueryEscape(token)
	if err := s.notifier.SendVerification(ctx, user, link); err != nil {
		s.logger.Warn("verification mail not delivered", "user_id", user.ID, "err", err)
	}
}

// ensureUnique rejects a username or email held by a user other than selfID.
func ensureUnique(ctx context.Context, repo repositories.UserRepository, selfID, username, email string) error {
	if username != "" {
		if existing, err := repo.GetByUsername(ctx, username); err == nil && existing.ID != selfID {
			return apperr.Conflict("username '%s' already taken", username)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
	}
	if email != "" {
		if existing, err := repo.GetByEmail(ctx, email); err == nil && existing.ID != selfID {
			return apperr.Conflict("email '%s' already registered", email)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
	}
	return nil
}

func userAttributes(username, email, nickname string) []string {
	return []string{"username=" + username, "email=" + email, "nickname=" + nickname}
}
