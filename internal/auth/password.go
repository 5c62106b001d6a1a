package auth

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	cost   int
	logger *zap.Logger
}

// NewPasswordHasher builds a hasher. Costs outside bcrypt's supported range
// fall back to the library default.
func NewPasswordHasher(cost int, logger *zap.Logger) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, logger: logger}
}

// Hash produces a self-salted digest of the password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored digest. It never errors
// out to the caller: a digest produced by an unsupported algorithm or a
// mismatched bcrypt version is logged and treated as a non-match.
func (h *PasswordHasher) Verify(plain, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) && h.logger != nil {
		h.logger.Warn("unsupported password digest", zap.Error(err))
	}
	return false
}
