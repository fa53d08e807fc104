package repositories

import (
	"errors"
	"strings"

	"github.com/shashiranjanraj/honeyshop/pkg/docstore"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row or document matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), docstore.IsNotFound(err):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), docstore.IsDuplicateKey(err), isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation recognises unique-constraint messages from the SQL
// drivers that do not translate them to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	for _, s := range []string{
		"UNIQUE constraint failed",    // sqlite
		"duplicate key value",         // postgres
		"Duplicate entry",             // mysql
		"Cannot insert duplicate key", // sqlserver
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
