package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testSeq int

// NewTest opens a fresh in-memory sqlite database for tests.
func NewTest() (*gorm.DB, error) {
	testSeq++
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testSeq)
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
}
