package database

import (
	"os"
	"regexp"
	"strings"
)

// GetDBDriver returns the current database driver
func GetDBDriver() string {
	// In test mode, prefer TEST_ prefixed environment variables
	driver := os.Getenv("TEST_DB_DRIVER")
	if driver == "" {
		driver = os.Getenv("DB_DRIVER")
	}
	if driver == "" {
		driver = "mysql"
	}
	return strings.ToLower(driver)
}

// IsMySQL returns true if using MySQL/MariaDB
func IsMySQL() bool {
	driver := GetDBDriver()
	return driver == "mysql" || driver == "mariadb"
}

// IsPostgreSQL returns true if using PostgreSQL
func IsPostgreSQL() bool {
	return GetDBDriver() == "postgres"
}

// IsSQLite returns true if using SQLite (default for tests)
func IsSQLite() bool {
	driver := GetDBDriver()
	return driver == "sqlite" || driver == "sqlite3"
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// ConvertPlaceholders converts PostgreSQL placeholders ($1, $2) to ? placeholders.
// This allows us to write queries in PostgreSQL format and auto-convert for
// MySQL and SQLite.
func ConvertPlaceholders(query string) string {
	if IsPostgreSQL() {
		return query // No conversion needed for PostgreSQL
	}

	placeholders := placeholderRe.FindAllString(query, -1)
	result := query
	for _, placeholder := range placeholders {
		result = strings.Replace(result, placeholder, "?", 1)
	}

	// Convert ILIKE to LIKE (MySQL and SQLite are case-insensitive by default)
	result = strings.ReplaceAll(result, " ILIKE ", " LIKE ")
	result = strings.ReplaceAll(result, " ilike ", " LIKE ")

	return result
}
