// Package token issues and validates the bearer tokens handed out at
// registration and login.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yukikurage/project-management-api/internal/models"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrRefreshExpired   = errors.New("refresh has expired")
	ErrMissingSecret    = errors.New("token secret is not configured")
	ErrInvalidSubject   = errors.New("token subject is not a user ID")
	errUnexpectedMethod = errors.New("unexpected signing method")
)

// Claims is the payload carried by every token. OrigIssuedAt stays fixed
// across refreshes so the refresh window is measured from the first login.
type Claims struct {
	Username     string `json:"username"`
	OrigIssuedAt int64  `json:"orig_iat"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidSubject
	}
	return id, nil
}

type Config struct {
	Secret            string
	Issuer            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
	Now               func() time.Time
}

// Service signs HS256 tokens bound to a user.
type Service struct {
	secret            []byte
	issuer            string
	expiration        time.Duration
	refreshExpiration time.Duration
	now               func() time.Time
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 5 * time.Minute
	}
	if cfg.RefreshExpiration <= 0 {
		cfg.RefreshExpiration = 7 * 24 * time.Hour
	}

	return &Service{
		secret:            []byte(cfg.Secret),
		issuer:            cfg.Issuer,
		expiration:        cfg.Expiration,
		refreshExpiration: cfg.RefreshExpiration,
		now:               cfg.Now,
	}, nil
}

// Issue returns a signed token for user.
func (s *Service) Issue(user *models.User) (string, error) {
	if user == nil || user.ID == 0 {
		return "", fmt.Errorf("%w: user is not persisted", ErrInvalidToken)
	}
	now := s.now()
	return s.sign(strconv.FormatUint(user.ID, 10), user.Username, now, now.Unix())
}

// Verify validates signature, issuer and expiry and returns the claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return &claims, nil
}

// Refresh exchanges a valid token for a new one, as long as the original
// login is within the refresh window.
func (s *Service) Refresh(tokenString string) (string, *Claims, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	origIssued := time.Unix(claims.OrigIssuedAt, 0)
	if claims.OrigIssuedAt == 0 || now.After(origIssued.Add(s.refreshExpiration)) {
		return "", nil, ErrRefreshExpired
	}

	signed, err := s.sign(claims.Subject, claims.Username, now, claims.OrigIssuedAt)
	if err != nil {
		return "", nil, err
	}
	refreshed, err := s.Verify(signed)
	if err != nil {
		return "", nil, err
	}
	return signed, refreshed, nil
}

func (s *Service) sign(subject, username string, now time.Time, origIssuedAt int64) (string, error) {
	claims := Claims{
		Username:     username,
		OrigIssuedAt: origIssuedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errUnexpectedMethod
	}
	return s.secret, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}
