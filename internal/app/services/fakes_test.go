package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/email"
)

var baseTime = time.Date(2024, time.September, 1, 9, 0, 0, 0, time.UTC)

// fakeDirectory is an in-memory user and assignment store. RunClaimTx holds the
// mutex for the whole unit of work and restores a snapshot when fn fails.
type fakeDirectory struct {
	mu          sync.Mutex
	users       map[int64]*models.User
	assignments map[int64]*models.TAAssignment
	writes      int
	listErr     error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:       map[int64]*models.User{},
		assignments: map[int64]*models.TAAssignment{},
	}
}

func (f *fakeDirectory) addUser(id int64, first, last string, invitedBy *int64, minutes int) *models.User {
	u := &models.User{
		ID:          id,
		Email:       strings.ToLower(first) + "." + strings.ToLower(last) + "@example.edu",
		FirstName:   first,
		LastName:    last,
		RoleType:    models.RoleHeadTA,
		InvitedByID: invitedBy,
		IsActive:    true,
		Password:    "hash",
		CreatedAt:   baseTime.Add(time.Duration(minutes) * time.Minute),
	}
	f.users[id] = u
	return u
}

func (f *fakeDirectory) addPlaceholder(id int64, first, last string) *models.User {
	u := f.addUser(id, first, last, nil, int(id))
	u.IsUnclaimed = true
	u.IsActive = false
	u.Password = ""
	return u
}

func (f *fakeDirectory) addAssignment(id, userID, offeringID int64) {
	f.assignments[id] = &models.TAAssignment{ID: id, UserID: userID, CourseOfferingID: offeringID}
}

func (f *fakeDirectory) ownerOf(assignmentID int64) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assignments[assignmentID].UserID
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (f *fakeDirectory) getUser(id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetUserByID implements the tree and candidate stores outside a transaction
func (f *fakeDirectory) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getUser(id)
}

func (f *fakeDirectory) ListUsersInvitedBy(_ context.Context, inviterID int64) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.User{}
	for _, u := range f.users {
		if u.InvitedByID != nil && *u.InvitedByID == inviterID {
			out = append(out, copyUser(u))
		}
	}
	// map order is random, the service sorts
	return out, nil
}

func (f *fakeDirectory) ListRootUsers(_ context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.User{}
	for _, u := range f.users {
		if u.InvitedByID == nil {
			out = append(out, copyUser(u))
		}
	}
	return out, nil
}

func (f *fakeDirectory) snapshot() (map[int64]*models.User, map[int64]*models.TAAssignment) {
	users := make(map[int64]*models.User, len(f.users))
	for id, u := range f.users {
		users[id] = copyUser(u)
	}
	assignments := make(map[int64]*models.TAAssignment, len(f.assignments))
	for id, a := range f.assignments {
		c := *a
		assignments[id] = &c
	}
	return users, assignments
}

// RunClaimTx implements ClaimStore
func (f *fakeDirectory) RunClaimTx(ctx context.Context, fn func(ctx context.Context, tx repositories.ClaimTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	users, assignments := f.snapshot()
	if err := fn(ctx, fakeClaimTx{f}); err != nil {
		f.users, f.assignments = users, assignments
		return err
	}
	return nil
}

// fakeClaimTx runs with fakeDirectory.mu already held
type fakeClaimTx struct {
	f *fakeDirectory
}

func (t fakeClaimTx) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	return t.f.getUser(id)
}

func (t fakeClaimTx) GetUserByIDForUpdate(_ context.Context, id int64) (*models.User, error) {
	return t.f.getUser(id)
}

func (t fakeClaimTx) ReassignAssignments(_ context.Context, fromUserID, toUserID int64) (int64, error) {
	held := map[int64]bool{}
	for _, a := range t.f.assignments {
		if a.UserID == toUserID {
			held[a.CourseOfferingID] = true
		}
	}
	var moved int64
	for id, a := range t.f.assignments {
		if a.UserID != fromUserID {
			continue
		}
		t.f.writes++
		if held[a.CourseOfferingID] {
			delete(t.f.assignments, id)
			continue
		}
		a.UserID = toUserID
		moved++
	}
	return moved, nil
}

func (t fakeClaimTx) MarkClaimed(_ context.Context, userID, claimerID int64, at time.Time) error {
	u, ok := t.f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if !u.IsUnclaimed {
		return apperrors.ErrProfileAlreadyClaimed
	}
	t.f.writes++
	u.IsUnclaimed = false
	u.IsActive = false
	u.ClaimedByID = &claimerID
	u.ClaimedAt = &at
	return nil
}

// failingClaimStore fails MarkClaimed after assignments moved, forcing a rollback
type failingClaimStore struct {
	*fakeDirectory
}

func (f failingClaimStore) RunClaimTx(ctx context.Context, fn func(ctx context.Context, tx repositories.ClaimTx) error) error {
	return f.fakeDirectory.RunClaimTx(ctx, func(ctx context.Context, tx repositories.ClaimTx) error {
		return fn(ctx, failingMarkTx{tx})
	})
}

type failingMarkTx struct {
	repositories.ClaimTx
}

var errStorageDown = errors.New("storage unavailable")

func (failingMarkTx) MarkClaimed(context.Context, int64, int64, time.Time) error {
	return errStorageDown
}

// fakeMailer records sent emails
type fakeMailer struct {
	mu          sync.Mutex
	invitations []email.InvitationMessage
	claims      []string
}

func (m *fakeMailer) SendInvitationEmail(msg email.InvitationMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations = append(m.invitations, msg)
	return nil
}

func (m *fakeMailer) SendClaimConfirmationEmail(toEmail, _, claimedName string, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims = append(m.claims, toEmail+":"+claimedName)
	return nil
}

func int64Ptr(v int64) *int64 { return &v }
