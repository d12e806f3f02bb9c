package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/pkg/apperrors"
)

// fakeTokens is an in-memory refresh token store
type fakeTokens struct {
	mu      sync.Mutex
	tokens  map[string]int64
	expires map[string]time.Time
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]int64{}, expires: map[string]time.Time{}}
}

func (f *fakeTokens) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = userID
	f.expires[token] = expiryDate
	return nil
}

func (f *fakeTokens) GetTokenByValue(_ context.Context, token string) (int64, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	return id, f.expires[token], nil
}

func (f *fakeTokens) RevokeToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokens) RevokeAllUserTokens(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for tok, id := range f.tokens {
		if id == userID {
			delete(f.tokens, tok)
		}
	}
	return nil
}

func (f *fakeDirectory) GetUserByEmail(_ context.Context, addr string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, addr) {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeDirectory) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (f *fakeDirectory) emailExists(addr string) bool {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, addr) {
			return true
		}
	}
	return false
}

func (f *fakeDirectory) EmailExists(_ context.Context, addr string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emailExists(addr), nil
}

func (f *fakeDirectory) createUser(user *models.User) int64 {
	var next int64 = 1
	for id := range f.users {
		if id >= next {
			next = id + 1
		}
	}
	c := copyUser(user)
	c.ID = next
	c.CreatedAt = baseTime.Add(time.Duration(next) * time.Hour)
	f.users[next] = c
	return next
}

func (f *fakeDirectory) CreateUser(_ context.Context, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailExists(user.Email) {
		return 0, apperrors.ErrEmailAlreadyExists
	}
	return f.createUser(user), nil
}

// fakeInvitations stores invitations and runs signup against a fakeDirectory
type fakeInvitations struct {
	mu   sync.Mutex
	dir  *fakeDirectory
	invs map[int64]*models.Invitation
}

func newFakeInvitations(dir *fakeDirectory) *fakeInvitations {
	return &fakeInvitations{dir: dir, invs: map[int64]*models.Invitation{}}
}

func (f *fakeInvitations) add(inv *models.Invitation) *models.Invitation {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv.ID = int64(len(f.invs) + 1)
	f.invs[inv.ID] = inv
	return inv
}

func copyInvitation(inv *models.Invitation) *models.Invitation {
	c := *inv
	return &c
}

func (f *fakeInvitations) CreateInvitation(_ context.Context, inv *models.Invitation) (int64, error) {
	return f.add(copyInvitation(inv)).ID, nil
}

func (f *fakeInvitations) GetInvitationByID(_ context.Context, id int64) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invs[id]
	if !ok {
		return nil, apperrors.ErrInvitationNotFound
	}
	return copyInvitation(inv), nil
}

func (f *fakeInvitations) byToken(token string) (*models.Invitation, error) {
	for _, inv := range f.invs {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, apperrors.ErrInvitationNotFound
}

func (f *fakeInvitations) GetInvitationByToken(_ context.Context, token string) (*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, err := f.byToken(token)
	if err != nil {
		return nil, err
	}
	return copyInvitation(inv), nil
}

func (f *fakeInvitations) HasPendingInvitation(_ context.Context, addr string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invs {
		if strings.EqualFold(inv.Email, addr) && inv.Status(now) == models.InvitationPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitations) ListInvitationsByInviter(_ context.Context, inviterID int64) ([]*models.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Invitation{}
	for _, inv := range f.invs {
		if inv.InvitedByID == inviterID {
			out = append(out, copyInvitation(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeInvitations) Revoke(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invs[id]
	if !ok {
		return apperrors.ErrInvitationNotFound
	}
	inv.RevokedAt = &at
	return nil
}

// RunSignupTx implements SignupStore
func (f *fakeInvitations) RunSignupTx(ctx context.Context, fn func(ctx context.Context, tx repositories.SignupTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dir.mu.Lock()
	defer f.dir.mu.Unlock()
	return fn(ctx, fakeSignupTx{f})
}

// fakeSignupTx runs with both fake mutexes held
type fakeSignupTx struct {
	f *fakeInvitations
}

func (t fakeSignupTx) GetInvitationByTokenForUpdate(_ context.Context, token string) (*models.Invitation, error) {
	inv, err := t.f.byToken(token)
	if err != nil {
		return nil, err
	}
	return copyInvitation(inv), nil
}

func (t fakeSignupTx) EmailExists(_ context.Context, addr string) (bool, error) {
	return t.f.dir.emailExists(addr), nil
}

func (t fakeSignupTx) CreateUser(_ context.Context, user *models.User) (int64, error) {
	return t.f.dir.createUser(user), nil
}

func (t fakeSignupTx) MarkAccepted(_ context.Context, id, userID int64, at time.Time) error {
	inv, ok := t.f.invs[id]
	if !ok || inv.AcceptedAt != nil {
		return apperrors.ErrInvitationUsed
	}
	inv.AcceptedAt = &at
	inv.AcceptedUserID = &userID
	return nil
}
