package connector

import (
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return logger
}

func TestNewDatabaseConnector(t *testing.T) {
	// Set environment variables for testing
	os.Setenv("MYSQL_HOST", "test-host")
	os.Setenv("MYSQL_USER", "test-user")
	os.Setenv("MYSQL_PASSWORD", "test-password")
	os.Setenv("MYSQL_DATABASE", "test-database")
	os.Setenv("MYSQL_PORT", "3307")
	defer func() {
		os.Unsetenv("MYSQL_HOST")
		os.Unsetenv("MYSQL_USER")
		os.Unsetenv("MYSQL_PASSWORD")
		os.Unsetenv("MYSQL_DATABASE")
		os.Unsetenv("MYSQL_PORT")
	}()

	db := NewDatabaseConnector("", "", "", "", "", testLogger())

	// Check that environment variables were used
	if db.Host != "test-host" {
		t.Errorf("Expected host to be 'test-host', got '%s'", db.Host)
	}
	if db.User != "test-user" {
		t.Errorf("Expected user to be 'test-user', got '%s'", db.User)
	}
	if db.Password != "test-password" {
		t.Errorf("Expected password to be 'test-password', got '%s'", db.Password)
	}
	if db.Database != "test-database" {
		t.Errorf("Expected database to be 'test-database', got '%s'", db.Database)
	}
	if db.Port != "3307" {
		t.Errorf("Expected port to be '3307', got '%s'", db.Port)
	}

	// Explicit parameters take precedence over the environment
	db = NewDatabaseConnector("explicit-host", "explicit-user", "explicit-password", "explicit-database", "3308", testLogger())

	if db.Host != "explicit-host" {
		t.Errorf("Expected host to be 'explicit-host', got '%s'", db.Host)
	}
	if db.Database != "explicit-database" {
		t.Errorf("Expected database to be 'explicit-database', got '%s'", db.Database)
	}
}

func TestExecuteQuery(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer mockDB.Close()

	dc := &DatabaseConnector{
		Database: "test-database",
		DB:       mockDB,
		Logger:   testLogger(),
	}

	rows := sqlmock.NewRows([]string{"table_name"}).
		AddRow("customers").
		AddRow("orders")
	mock.ExpectQuery("SELECT table_name").WillReturnRows(rows)

	results, err := dc.ExecuteQuery("SELECT table_name FROM information_schema.tables")
	if err != nil {
		t.Fatalf("Expected query to succeed, got error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(results))
	}
	if results[0]["table_name"] != "customers" {
		t.Errorf("Expected first row to be customers, got %v", results[0]["table_name"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations: %v", err)
	}
}

func TestExecuteQueryConvertsBytes(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	defer mockDB.Close()

	dc := &DatabaseConnector{
		Database: "test-database",
		DB:       mockDB,
		Logger:   testLogger(),
	}

	rows := sqlmock.NewRows([]string{"column_name"}).AddRow([]byte("created_at"))
	mock.ExpectQuery("SELECT column_name").WillReturnRows(rows)

	results, err := dc.ExecuteQuery("SELECT column_name FROM information_schema.columns")
	if err != nil {
		t.Fatalf("Expected query to succeed, got error: %v", err)
	}

	value, ok := results[0]["column_name"].(string)
	if !ok {
		t.Fatalf("Expected []byte value to be converted to string, got %T", results[0]["column_name"])
	}
	if value != "created_at" {
		t.Errorf("Expected value to be 'created_at', got '%s'", value)
	}
}
