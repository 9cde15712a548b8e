package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msomdec/shelfmate/internal/repository/sqlite"
	"github.com/msomdec/shelfmate/internal/service"
)

func setTestEnv(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("MONGO_URI", "")
	t.Setenv("DATABASE_PATH", dbPath)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	return dbPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedCommand(t *testing.T) {
	dbPath := setTestEnv(t)

	out, err := run(t, "", "seed", "--users", "3", "--books", "2", "--friends", "1", "--seed", "7")
	if err != nil {
		t.Fatalf("seed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "created 3 users, 6 books") {
		t.Fatalf("unexpected output: %s", out)
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	users, err := db.Users().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
}

func TestResetPasswordCommand(t *testing.T) {
	dbPath := setTestEnv(t)

	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	accounts := service.NewAccountService(db.Users(), db.Books(), 4)
	if _, err := accounts.Signup(context.Background(), "Ann", "a@x.com", "old"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	db.Close()

	out, err := run(t, "fresh\n", "reset-password", "--email", "a@x.com")
	if err != nil {
		t.Fatalf("reset-password: %v\n%s", err, out)
	}

	db, err = sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()
	accounts = service.NewAccountService(db.Users(), db.Books(), 4)
	if _, err := accounts.Login(context.Background(), "a@x.com", "fresh"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestResetPasswordCommand_Errors(t *testing.T) {
	setTestEnv(t)

	if _, err := run(t, "", "reset-password", "--email", "a@x.com"); err == nil {
		t.Fatal("expected an error for an empty password")
	}
	if _, err := run(t, "pw\n", "reset-password", "--email", "nobody@x.com"); err == nil {
		t.Fatal("expected an error for an unknown email")
	}
	if _, err := run(t, "pw\n", "reset-password"); err == nil {
		t.Fatal("expected an error without --email")
	}
}
