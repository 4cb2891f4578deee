// Package auth issues and verifies the signed tokens used by the API and enforces the
// password strength policy.
package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"tunebox/internal/apperr"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/hkdf"
)

// TokenKind namespaces a token. Every kind signs with its own derived key, so a token of
// one kind never verifies as another.
type TokenKind string

const (
	AccessToken       TokenKind = "access"
	RefreshToken      TokenKind = "refresh"
	EmailVerification TokenKind = "email-verify"
)

// Claims is the payload of every token.
type Claims struct {
	Kind   TokenKind `json:"kind"`
	UserID string    `json:"uid"`
	jwt.StandardClaims
}

// Lifetimes configures how long each kind stays valid.
type Lifetimes struct {
	Access       time.Duration
	Refresh      time.Duration
	Verification time.Duration
}

// TokenService mints and verifies HS256 tokens.
type TokenService struct {
	keys      map[TokenKind][]byte
	lifetimes map[TokenKind]time.Duration
	now       func() time.Time
}

// NewTokenService derives one signing key per kind from secret.
func NewTokenService(secret string, lt Lifetimes) (*TokenService, error) {
	s := &TokenService{
		keys: make(map[TokenKind][]byte, 3),
		lifetimes: map[TokenKind]time.Duration{
			AccessToken:       lt.Access,
			RefreshToken:      lt.Refresh,
			EmailVerification: lt.Verification,
		},
		now: time.Now,
	}
	for kind := range s.lifetimes {
		key, err := deriveKey(secret, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s key: %w", kind, err)
		}
		s.keys[kind] = key
	}
	return s, nil
}

func deriveKey(secret string, kind TokenKind) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("tunebox:"+string(kind)))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

// WithClock replaces the issuing clock. Verification always uses the real time.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// Lifetime returns the validity window of kind.
func (s *TokenService) Lifetime(kind TokenKind) time.Duration {
	return s.lifetimes[kind]
}

// Issue signs a token of the given kind bound to userID.
func (s *TokenService) Issue(kind TokenKind, userID string) (string, time.Time, error) {
	key, ok := s.keys[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown token kind %q", kind)
	}
	now := s.now()
	expiresAt := now.Add(s.lifetimes[kind])

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Kind:   kind,
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	})

	signed, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, expiresAt, nil
}

// Verify parses raw as a token of kind. It returns apperr.ErrTokenExpired when the only
// problem is expiry and apperr.ErrInvalidToken for everything else.
func (s *TokenService) Verify(kind TokenKind, raw string) (*Claims, error) {
	key, ok := s.keys[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors == jwt.ValidationErrorExpired {
			return nil, apperr.ErrTokenExpired
		}
		return nil, &apperr.Error{Code: apperr.CodeInvalidToken, Message: apperr.ErrInvalidToken.Message, Err: err}
	}
	if !token.Valid || claims.Kind != kind || claims.UserID == "" {
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}
