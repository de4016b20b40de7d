package db

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == DialectSQLite
}

// forUpdate adds a row lock on dialects that support it. SQLite already
// serializes writers behind its database lock.
func forUpdate(conn *gorm.DB) *gorm.DB {
	if IsSQLite(conn) {
		return conn
	}
	return conn.Clauses(clause.Locking{Strength: "UPDATE"})
}
