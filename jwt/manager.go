package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid is an exported constant or variable used by the lifecycle engine.
var ErrTokenInvalid = errors.New("invalid reset token")

// Config defines a public type used by dirauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Key      []byte
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Manager defines a public type used by dirauth APIs.
//
// Manager signs and parses the HS256 link tokens used by the link-based
// password-reset strategy. The signing key is the service secret.
type Manager struct {
	config Config
}

// ResetClaims defines a public type used by dirauth APIs.
//
// ResetClaims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Key) == 0 {
		return nil, errors.New("hs256 requires a signing key")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}

	key := make([]byte, len(cfg.Key))
	copy(key, cfg.Key)
	cfg.Key = key

	return &Manager{config: cfg}, nil
}

// CreateResetToken describes the createresettoken operation and its observable behavior.
//
// CreateResetToken may return an error when input validation, dependency calls, or security checks fail.
// CreateResetToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) CreateResetToken(subjectID, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.New("invalid reset token ttl")
	}

	now := time.Now()
	claims := ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
		},
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.config.Key)
}

// ParseResetToken describes the parseresettoken operation and its observable behavior.
//
// ParseResetToken fails with [ErrTokenInvalid] for malformed, expired,
// foreign-key, or wrong-algorithm tokens; the distinction is not surfaced.
func (m *Manager) ParseResetToken(tokenStr string) (*ResetClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &ResetClaims{}, func(*jwt.Token) (interface{}, error) {
		return m.config.Key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
