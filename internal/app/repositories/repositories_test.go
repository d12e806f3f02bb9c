package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/db"
	"github.com/yigit/headta/internal/pkg/apperrors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

var (
	moveAssignmentsSQL = regexp.QuoteMeta("UPDATE ta_assignments SET user_id = $1 WHERE user_id = $2 AND course_offering_id NOT IN")
	dropAssignmentsSQL = regexp.QuoteMeta("DELETE FROM ta_assignments WHERE user_id = $1")
	markClaimedSQL     = regexp.QuoteMeta("UPDATE users SET claimed_at = $1, claimed_by_id = $2, is_active = $3, is_unclaimed = $4, updated_at = $5 WHERE id = $6 AND is_unclaimed = $7")
)

func TestRunClaimTx_Commit(t *testing.T) {
	mock := newMock(t)
	store := NewStore(db.NewFromPool(mock))
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(moveAssignmentsSQL).WithArgs(int64(3), int64(9), int64(3)).WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec(dropAssignmentsSQL).WithArgs(int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(markClaimedSQL).
		WithArgs(at, int64(3), false, false, at, int64(9), true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	var moved int64
	err := store.RunClaimTx(context.Background(), func(ctx context.Context, tx ClaimTx) error {
		var err error
		if moved, err = tx.ReassignAssignments(ctx, 9, 3); err != nil {
			return err
		}
		return tx.MarkClaimed(ctx, 9, 3, at)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunClaimTx_RollbackWhenAlreadyClaimed(t *testing.T) {
	mock := newMock(t)
	store := NewStore(db.NewFromPool(mock))

	mock.ExpectBegin()
	mock.ExpectExec(moveAssignmentsSQL).WithAnyArgs().WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(dropAssignmentsSQL).WithAnyArgs().WillReturnResult(pgxmock.NewResult("DELETE", 0))
	// a concurrent claim already flipped is_unclaimed
	mock.ExpectExec(markClaimedSQL).WithAnyArgs().WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := store.RunClaimTx(context.Background(), func(ctx context.Context, tx ClaimTx) error {
		if _, err := tx.ReassignAssignments(ctx, 9, 3); err != nil {
			return err
		}
		return tx.MarkClaimed(ctx, 9, 3, time.Now())
	})
	assert.ErrorIs(t, err, apperrors.ErrProfileAlreadyClaimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunClaimTx_RollbackOnDatabaseError(t *testing.T) {
	mock := newMock(t)
	store := NewStore(db.NewFromPool(mock))
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec(moveAssignmentsSQL).WithAnyArgs().WillReturnError(boom)
	mock.ExpectRollback()

	err := store.RunClaimTx(context.Background(), func(ctx context.Context, tx ClaimTx) error {
		_, err := tx.ReassignAssignments(ctx, 9, 3)
		return err
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_EmailExistsNormalizes(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM users WHERE email = $1 )")).
		WithArgs("ada@cs.example.edu").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "  Ada@CS.Example.edu ")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CountUsersAppliesFilter(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE role_type = $1 AND is_unclaimed = $2 AND is_active = $3")).
		WithArgs(models.RoleHeadTA, false, true).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	n, err := repo.CountUsers(context.Background(), UserFilter{Role: models.RoleHeadTA, OnlyActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUserDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithAnyArgs().
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.CreateUser(context.Background(), &models.User{Email: "dup@example.edu", FirstName: "D", LastName: "Up", RoleType: models.RoleHeadTA})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetActiveNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2")).
		WithArgs(false, int64(404)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetActive(context.Background(), 404, false)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingRepository_ListOfferedYears(t *testing.T) {
	mock := newMock(t)
	repo := NewOfferingRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT year FROM course_offerings WHERE course_id = $1 AND term = $2 AND year >= $3 AND year <= $4 ORDER BY year ASC")).
		WithArgs(int64(5), models.TermFall, 2021, 2023).
		WillReturnRows(pgxmock.NewRows([]string{"year"}).AddRow(2021).AddRow(2023))

	years, err := repo.ListOfferedYears(context.Background(), 5, models.TermFall, 2021, 2023)
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2023}, years)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOfferingRepository_DeleteWithAssignments(t *testing.T) {
	mock := newMock(t)
	repo := NewOfferingRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_offerings WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.DeleteOffering(context.Background(), 8)
	assert.ErrorIs(t, err, apperrors.ErrOfferingHasAssignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
