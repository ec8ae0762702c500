package auth

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitutor/academy/internal/apperror"
)

func newMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func testUser() *User {
	name := "Alice"
	return &User{
		ID:           "8b0f2a52-3c9e-4d1a-9a57-2f6f0c1d4e11",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$hash",
		DisplayName:  &name,
		Role:         RoleUser,
		CreatedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

var userColumns = []string{"id", "email", "password_hash", "display_name", "role", "created_at"}

func TestUserRepository_Create(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := testUser()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Role, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WithArgs(sqlmock.AnyArg(), u.ID, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscriptions")).
		WithArgs(sqlmock.AnyArg(), u.ID, PlanFree, SubscriptionActive, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := testUser()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice@example.com' for key 'uq_users_email'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), u)
	assert.True(t, apperror.Is(err, apperror.TypeDuplicateAccount), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_ProfileFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := testUser()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO profiles")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), u)
	require.Error(t, err)
	assert.False(t, apperror.Is(err, apperror.TypeDuplicateAccount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := testUser()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs(u.Email).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(u.ID, u.Email, u.PasswordHash, "Alice", "USER", u.CreatedAt))

	got, err := repo.FindByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.True(t, apperror.Is(err, apperror.TypeNotFound))
}

func TestUserRepository_FindByID_NullName(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := testUser()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(u.ID).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(u.ID, u.Email, u.PasswordHash, nil, "ADMIN", u.CreatedAt))

	got, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DisplayName)
	assert.Equal(t, RoleAdmin, got.Role)
}

func TestUserRepository_FindByID_UnknownRole(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := testUser()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WithArgs(u.ID).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(u.ID, u.Email, u.PasswordHash, nil, "SUPERUSER", u.CreatedAt))

	_, err := repo.FindByID(context.Background(), u.ID)
	require.Error(t, err)
	assert.False(t, apperror.Is(err, apperror.TypeNotFound))
}

func TestUserRepository_FindByID_DBError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = ?")).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByID(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestUserRepository_EmailExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)")).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
