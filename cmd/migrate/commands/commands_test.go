package commands

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func runCLI(t *testing.T, conn *sql.DB, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")

	open := func(context.Context, string) (*sql.DB, error) { return conn, nil }
	cmd := newRootCmd(open)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	envFile := filepath.Join(t.TempDir(), "absent.env")
	cmd.SetArgs(append([]string{"--env-file", envFile}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	return conn, mock
}

func TestUp_AppliesPending(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS places`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("000001_create_places").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	out, err := runCLI(t, conn, "up", "--database-url", "postgres://localhost/places")
	if err != nil {
		t.Fatalf("up failed: %v", err)
	}
	if !strings.Contains(out, "up 000001_create_places") {
		t.Errorf("unexpected output %q", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUp_NothingPending(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("000001_create_places"))
	mock.ExpectClose()

	out, err := runCLI(t, conn, "up", "--database-url", "postgres://localhost/places")
	if err != nil {
		t.Fatalf("up failed: %v", err)
	}
	if !strings.Contains(out, "no migrations to run") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDown_RevertsNewest(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("000001_create_places"))
	mock.ExpectBegin()
	mock.ExpectExec(`DROP INDEX IF EXISTS idx_places_created_at`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM schema_migrations`).WithArgs("000001_create_places").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectClose()

	out, err := runCLI(t, conn, "down", "--database-url", "postgres://localhost/places")
	if err != nil {
		t.Fatalf("down failed: %v", err)
	}
	if !strings.Contains(out, "down 000001_create_places") {
		t.Errorf("unexpected output %q", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestStatus(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT version FROM schema_migrations`).WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectClose()

	out, err := runCLI(t, conn, "status", "--database-url", "postgres://localhost/places")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(out, "pending  000001_create_places") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestMissingDatabaseURL(t *testing.T) {
	_, err := runCLI(t, nil, "status")
	if err == nil || !strings.Contains(err.Error(), "database URL is required") {
		t.Errorf("expected missing database URL error, got %v", err)
	}
}

func TestOpenFailure(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/places")
	cmd := newRootCmd(func(context.Context, string) (*sql.DB, error) {
		return nil, errors.New("connection refused")
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env"), "status"})

	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected open error, got %v", err)
	}
}

func TestNegativeSteps(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectClose()

	if _, err := runCLI(t, conn, "up", "--steps", "-1", "--database-url", "postgres://localhost/places"); err == nil {
		t.Error("expected error for negative steps")
	}
}
