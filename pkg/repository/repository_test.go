package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/scout/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("some other error")
	fk := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"foreign key passes through", fk, fk},
		{"other passes through", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.err, errNotFound, errDuplicate); got != tt.want {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	if !repository.IsForeignKeyViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})) {
		t.Error("wrapped 23503 should be a foreign key violation")
	}
	if repository.IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("23505 is not a foreign key violation")
	}
	if repository.IsForeignKeyViolation(errors.New("plain")) {
		t.Error("plain error is not a foreign key violation")
	}
}

func TestListColumns(t *testing.T) {
	t.Run("nil encodes as empty array", func(t *testing.T) {
		data, err := repository.EncodeList(nil)
		if err != nil {
			t.Fatalf("EncodeList() error = %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("EncodeList(nil) = %s, want []", data)
		}
	})

	t.Run("decode preserves order", func(t *testing.T) {
		got, err := repository.DecodeList([]byte(`["Go","SQL"]`))
		if err != nil {
			t.Fatalf("DecodeList() error = %v", err)
		}
		if !slices.Equal(got, []string{"Go", "SQL"}) {
			t.Errorf("DecodeList() = %v", got)
		}
	})

	t.Run("null decodes empty", func(t *testing.T) {
		for _, in := range [][]byte{nil, []byte("null")} {
			got, err := repository.DecodeList(in)
			if err != nil || got == nil || len(got) != 0 {
				t.Errorf("DecodeList(%q) = %v, %v; want empty list", in, got, err)
			}
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := repository.DecodeList([]byte(`{`)); err == nil {
			t.Error("expected error for invalid json")
		}
	})
}

type unusedQuerier struct{ t *testing.T }

func (q unusedQuerier) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	q.t.Fatal("QueryContext should not be called")
	return nil, nil
}

func (q unusedQuerier) QueryRowContext(context.Context, string, ...any) *sql.Row {
	q.t.Fatal("QueryRowContext should not be called")
	return nil
}

func scanString(s repository.Scanner) (string, error) {
	var v string
	return v, s.Scan(&v)
}

func TestInsertEach(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		got, err := repository.InsertEach(
			context.Background(), unusedQuerier{t}, "INSERT", []int{},
			func(int, int) ([]any, error) { return nil, nil },
			scanString,
		)
		if err != nil {
			t.Fatalf("InsertEach() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("got %v, want empty slice", got)
		}
	})

	t.Run("argument error stops before query", func(t *testing.T) {
		bad := errors.New("bad input")
		_, err := repository.InsertEach(
			context.Background(), unusedQuerier{t}, "INSERT", []int{7},
			func(pos, in int) ([]any, error) {
				if pos != 1 || in != 7 {
					t.Errorf("args(%d, %d), want args(1, 7)", pos, in)
				}
				return nil, bad
			},
			scanString,
		)
		if !errors.Is(err, bad) {
			t.Errorf("error: got %v, want %v", err, bad)
		}
	})
}
