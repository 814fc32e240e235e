package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fixit-helpdesk/fixit/internal/logger"
	"github.com/fixit-helpdesk/fixit/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &userRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var userColumns = []string{"id", "email", "name", "role", "password_hash", "active", "created_at", "updated_at"}

func TestCreateUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{
		ID:           "u-1",
		Email:        "john@fixit.local",
		Name:         "John",
		Role:         models.RoleUser,
		PasswordHash: "hash",
		Active:       true,
	}

	now := time.Now()

	rows := sqlmock.NewRows(userColumns).
		AddRow(user.ID, user.Email, user.Name, user.Role, user.PasswordHash, user.Active, now, now)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.Name, user.Role, user.PasswordHash, user.Active).
		WillReturnRows(rows)

	created, err := repo.CreateUser(ctx, user)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != user.ID {
		t.Errorf("expected ID=%s, got %s", user.ID, created.ID)
	}
	if created.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, created.Email)
	}
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	ctx := context.Background()
	user := models.User{ID: "u-1", Email: "john@fixit.local"}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(ctx, user)
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, email, name, role").
		WithArgs("nobody@fixit.local").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindUserByEmail(context.Background(), "nobody@fixit.local")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestFindUserByID_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userColumns).
		AddRow("u-7", "tech@fixit.local", "Tech", models.RoleTechL2, "hash", true, now, now)

	mock.ExpectQuery("SELECT id, email, name, role").
		WithArgs("u-7").
		WillReturnRows(rows)

	found, err := repo.FindUserByID(context.Background(), "u-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Role != models.RoleTechL2 {
		t.Errorf("expected role %s, got %s", models.RoleTechL2, found.Role)
	}
}

func TestGetAllUsers_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userColumns).
		AddRow("u-1", "a@fixit.local", "A", models.RoleUser, "h1", true, now, now).
		AddRow("u-2", "b@fixit.local", "B", models.RoleAdmin, "h2", true, now, now)

	mock.ExpectQuery("SELECT id, email, name, role").
		WillReturnRows(rows)

	users, err := repo.GetAllUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[1].Role != models.RoleAdmin {
		t.Errorf("expected role %s, got %s", models.RoleAdmin, users[1].Role)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectQuery("UPDATE users").
		WithArgs("missing", "Name", models.RoleUser, true).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.UpdateUser(context.Background(), models.User{ID: "missing", Name: "Name", Role: models.RoleUser, Active: true})
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}

func TestDeleteUser_Success(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteUser(context.Background(), "u-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	repo, mock, db := newTestUserRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteUser(context.Background(), "missing")
	if !errors.Is(err, ErrNoUserWasFound) {
		t.Fatalf("expected ErrNoUserWasFound, got %v", err)
	}
}
