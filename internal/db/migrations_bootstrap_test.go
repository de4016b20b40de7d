package db

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	database := openTestDatabase(t, filepath.Join(t.TempDir(), "ritual-clean.db"))

	expectedTables := []string{
		"users",
		"streaks",
		"daily_activities",
		"junk_limits",
		"workout_plans",
		"workout_completions",
	}
	for _, table := range expectedTables {
		if !database.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist after migrations", table)
		}
	}

	columns := loadTableColumns(t, database, "daily_activities")
	for _, column := range []string{"user_id", "activity_date", "steps", "junk_type", "junk_quantity", "points"} {
		if _, exists := columns[column]; !exists {
			t.Fatalf("expected daily_activities.%s column to exist", column)
		}
	}

	assertNormalizedIndexExists(t, database, "idx_users_email_normalized", "lower(trim(email))")
	assertNormalizedIndexExists(t, database, "idx_users_username_normalized", "lower(trim(username))")
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "ritual-idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)
	if err := Close(firstOpen); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openTestDatabase(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Settings{Driver: "oracle"}); err == nil {
		t.Fatal("expected unknown driver to be rejected")
	}
}

func TestOpenPostgresRejectsEmptyDSN(t *testing.T) {
	if _, err := Open(Settings{Driver: DialectPostgres}); err == nil {
		t.Fatal("expected empty postgres dsn to be rejected")
	}
}

func TestSplitSQLStatementsDropsBlankParts(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n ;CREATE TABLE b (id INTEGER);  ")
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %#v", len(statements), statements)
	}
	if statements[1] != "CREATE TABLE b (id INTEGER)" {
		t.Fatalf("unexpected second statement %q", statements[1])
	}
}

func openTestDatabase(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = Close(database)
	})
	return database
}

func assertNormalizedIndexExists(t *testing.T, database *gorm.DB, indexName string, expression string) {
	t.Helper()

	var row struct {
		SQL string `gorm:"column:sql"`
	}
	if err := database.Raw(
		`SELECT sql FROM sqlite_master WHERE type = 'index' AND name = ?`,
		indexName,
	).Scan(&row).Error; err != nil {
		t.Fatalf("load index %s: %v", indexName, err)
	}

	definition := strings.ToLower(strings.Join(strings.Fields(row.SQL), ""))
	if definition == "" {
		t.Fatalf("expected index %s to exist", indexName)
	}
	if !strings.Contains(definition, expression) {
		t.Fatalf("expected index %s to use %s, got %q", indexName, expression, row.SQL)
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	migrations, err := loadEmbeddedMigrations()
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	expectedVersions := make([]string, 0, len(migrations))
	for _, migration := range migrations {
		expectedVersions = append(expectedVersions, migration.Version)
	}

	actualVersions := make([]string, 0)
	for _, record := range loadMigrationRecords(t, database) {
		actualVersions = append(actualVersions, record.Version)
	}

	if !reflect.DeepEqual(expectedVersions, actualVersions) {
		t.Fatalf("unexpected applied migration versions: expected=%v actual=%v", expectedVersions, actualVersions)
	}
}

type migrationRecord struct {
	Version   string `gorm:"column:version"`
	Name      string `gorm:"column:name"`
	AppliedAt string `gorm:"column:applied_at"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(
		`SELECT version, name, applied_at FROM schema_migrations ORDER BY version ASC`,
	).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}

func loadTableColumns(t *testing.T, database *gorm.DB, tableName string) map[string]struct{} {
	t.Helper()

	escapedTable := strings.ReplaceAll(tableName, `"`, `""`)
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, escapedTable)

	var rows []struct {
		Name string `gorm:"column:name"`
	}
	if err := database.Raw(query).Scan(&rows).Error; err != nil {
		t.Fatalf("load table columns for %s: %v", tableName, err)
	}

	columns := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		columns[strings.ToLower(strings.TrimSpace(row.Name))] = struct{}{}
	}
	return columns
}
