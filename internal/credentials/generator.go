// Package credentials issues the human-readable login identifiers and
// one-time passwords handed to owners at visit approval.
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"rental-portal/internal/models"

	"gorm.io/gorm"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generator derives unique loginIds from location codes. Uniqueness is
// checked against existing owner and user records; the unique index on
// login_id is the final arbiter, callers retry on gorm.ErrDuplicatedKey.
type Generator struct {
	db           *gorm.DB
	fallbackCode string
	maxAttempts  int
}

func NewGenerator(db *gorm.DB, fallbackCode string, maxAttempts int) *Generator {
	if fallbackCode == "" {
		fallbackCode = "GEN"
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Generator{db: db, fallbackCode: fallbackCode, maxAttempts: maxAttempts}
}

// NextLoginID returns a loginId of the form CODE-NNNN that does not collide
// with any existing owner or user loginId at the time of the check.
func (g *Generator) NextLoginID(locationCode string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(locationCode))
	if code == "" {
		code = strings.ToUpper(g.fallbackCode)
	}

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return "", err
		}
		candidate := fmt.Sprintf("%s-%04d", code, n.Int64())

		taken, err := g.loginIDTaken(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find a free loginId for code %q after %d attempts", code, g.maxAttempts)
}

func (g *Generator) loginIDTaken(loginID string) (bool, error) {
	var count int64
	if err := g.db.Model(&models.Owner{}).Where("login_id = ?", loginID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := g.db.Model(&models.User{}).Where("login_id = ?", loginID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// TempPassword returns a random lowercase-alphanumeric password of length n.
func TempPassword(n int) (string, error) {
	if n <= 0 {
		n = 8
	}
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
