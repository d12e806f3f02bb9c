package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/repositories"
	"github.com/yigit/headta/internal/pkg/apperrors"
	"github.com/yigit/headta/internal/pkg/helpers"
)

func (f *fakeDirectory) filtered(filter repositories.UserFilter) []*models.User {
	all, _ := f.ListAllUsers(context.Background(), filter)
	if filter.Role == "" {
		return all
	}
	out := []*models.User{}
	for _, u := range all {
		if u.RoleType == filter.Role {
			out = append(out, u)
		}
	}
	return out
}

func (f *fakeDirectory) ListUsers(_ context.Context, filter repositories.UserFilter, page helpers.Page) ([]*models.User, error) {
	all := f.filtered(filter)
	start := int(page.Offset())
	if start >= len(all) {
		return []*models.User{}, nil
	}
	end := start + page.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeDirectory) CountUsers(_ context.Context, filter repositories.UserFilter) (int64, error) {
	return int64(len(f.filtered(filter))), nil
}

func (f *fakeDirectory) ListUnclaimed(ctx context.Context) ([]*models.User, error) {
	all, err := f.ListAllUsers(ctx, repositories.UserFilter{IncludeUnclaimed: true})
	if err != nil {
		return nil, err
	}
	out := []*models.User{}
	for _, u := range all {
		if u.IsUnclaimed {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeDirectory) SetActive(_ context.Context, userID int64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func TestCreatePlaceholder(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "Lovelace", nil, 0).RoleType = models.RoleAdmin
	svc := NewUserService(f, zerolog.New(io.Discard))

	u, err := svc.CreatePlaceholder(context.Background(), 1, &dto.CreatePlaceholderRequest{FirstName: " Bob ", LastName: "Smith"})
	require.NoError(t, err)
	assert.True(t, u.IsUnclaimed)
	assert.Empty(t, u.Password)
	assert.False(t, u.CanLogin())
	assert.Equal(t, "Bob", u.FirstName)
	assert.True(t, strings.HasPrefix(u.Email, "unclaimed+"))
	assert.True(t, strings.HasSuffix(u.Email, "@placeholder.invalid"))
	require.NotNil(t, u.InvitedByID)
	assert.Equal(t, int64(1), *u.InvitedByID)

	_, err = svc.CreatePlaceholder(context.Background(), 1, &dto.CreatePlaceholderRequest{FirstName: "X", LastName: "Y", Email: "Ada.Lovelace@example.edu"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, err = svc.CreatePlaceholder(context.Background(), 1, &dto.CreatePlaceholderRequest{FirstName: "", LastName: "Y"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestListDirectory_HidesPlaceholdersAndPaginates(t *testing.T) {
	f := newFakeDirectory()
	for i := int64(1); i <= 5; i++ {
		f.addUser(i, "Head", "TA", nil, int(i))
	}
	f.users[1].RoleType = models.RoleAdmin
	f.addPlaceholder(6, "Bob", "Smith")
	svc := NewUserService(f, zerolog.New(io.Discard))

	resp, err := svc.ListDirectory(context.Background(), &dto.UserFilterRequest{}, helpers.NewPage(2, 2))
	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, int64(5), resp.Pagination.TotalItems)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, int64(3), resp.Users[0].ID)

	admins, err := svc.ListDirectory(context.Background(), &dto.UserFilterRequest{Role: "admin"}, helpers.NewPage(1, 20))
	require.NoError(t, err)
	require.Len(t, admins.Users, 1)
	assert.Equal(t, int64(1), admins.Users[0].ID)
}

func TestSetActive_CannotDisableSelf(t *testing.T) {
	f := newFakeDirectory()
	f.addUser(1, "Ada", "Lovelace", nil, 0)
	f.addUser(2, "Grace", "Hopper", nil, 1)
	svc := NewUserService(f, zerolog.New(io.Discard))

	err := svc.SetActive(context.Background(), 1, 1, false)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	require.NoError(t, svc.SetActive(context.Background(), 1, 2, false))
	assert.False(t, f.users[2].IsActive)
}
