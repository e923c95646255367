package credentials_test

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"rental-portal/internal/credentials"
	"rental-portal/internal/database"
	"rental-portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(db))
	return db
}

var loginIDPattern = regexp.MustCompile(`^[A-Z0-9]+-\d{4}$`)

func TestNextLoginIDFormat(t *testing.T) {
	gen := credentials.NewGenerator(setupTestDB(t), "GEN", 5)

	id, err := gen.NextLoginID("ko")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "KO-"), "location code must be uppercased, got %q", id)
	assert.Regexp(t, loginIDPattern, id)
}

func TestNextLoginIDFallback(t *testing.T) {
	gen := credentials.NewGenerator(setupTestDB(t), "GEN", 5)

	id, err := gen.NextLoginID("   ")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "GEN-"), "got %q", id)
}

func TestNextLoginIDSkipsTakenIDs(t *testing.T) {
	db := setupTestDB(t)
	gen := credentials.NewGenerator(db, "GEN", 5)

	id, err := gen.NextLoginID("KO")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Owner{LoginID: id}).Error)

	next, err := gen.NextLoginID("KO")
	require.NoError(t, err)
	assert.NotEqual(t, id, next)
}

func TestTempPassword(t *testing.T) {
	pw, err := credentials.TempPassword(8)
	require.NoError(t, err)
	assert.Len(t, pw, 8)
	assert.Regexp(t, `^[a-z0-9]+$`, pw)

	other, err := credentials.TempPassword(8)
	require.NoError(t, err)
	assert.NotEqual(t, pw, other, "passwords must not repeat")
}
