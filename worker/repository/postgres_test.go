package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"imageConverter/worker/batch"
)

type mockExecer struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
	err  error
}

func (m *mockExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.sql = sql
	m.args = args
	return m.tag, m.err
}

func TestPostgresRepo_UpdateBatchStatus(t *testing.T) {
	tests := []struct {
		status        string
		wantCompleted bool
	}{
		{StatusProcessing, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			db := &mockExecer{tag: pgconn.NewCommandTag("UPDATE 1")}
			repo := &PostgresRepo{db: db}

			if err := repo.UpdateBatchStatus(context.Background(), "b-1", tt.status, ""); err != nil {
				t.Fatalf("UpdateBatchStatus failed: %v", err)
			}
			if got := strings.Contains(db.sql, "completed_at"); got != tt.wantCompleted {
				t.Errorf("completed_at in query = %v, want %v", got, tt.wantCompleted)
			}
			if db.args[2] != "b-1" {
				t.Errorf("Expected batch id as last argument, got %v", db.args[2])
			}
		})
	}
}

func TestPostgresRepo_UpdateBatchStatus_NotFound(t *testing.T) {
	repo := &PostgresRepo{db: &mockExecer{tag: pgconn.NewCommandTag("UPDATE 0")}}

	err := repo.UpdateBatchStatus(context.Background(), "missing", StatusFailed, "boom")
	if !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("Expected ErrBatchNotFound, got %v", err)
	}
}

func TestPostgresRepo_SaveResult(t *testing.T) {
	db := &mockExecer{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := &PostgresRepo{db: db}

	result := &batch.Result{
		FilesConverted: 2,
		FilesFailed:    1,
		Failures:       []batch.FileFailure{{Path: "/in/bad.png", Kind: "decode", Reason: "bad"}},
	}
	if err := repo.SaveResult(context.Background(), "b-1", result); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	if db.args[0] != StatusCompleted || db.args[1] != 2 || db.args[2] != 1 {
		t.Errorf("Unexpected arguments: %v", db.args)
	}
	if failures, ok := db.args[6].([]byte); !ok || !strings.Contains(string(failures), `"kind":"decode"`) {
		t.Errorf("Expected failures JSON, got %v", db.args[6])
	}
}

func TestPostgresRepo_SaveResult_ExecError(t *testing.T) {
	repo := &PostgresRepo{db: &mockExecer{err: errors.New("connection reset")}}

	err := repo.SaveResult(context.Background(), "b-1", &batch.Result{})
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Expected wrapped exec error, got %v", err)
	}
}
