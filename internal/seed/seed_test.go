package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appModels "github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	users []*appModels.User
}

func (m *memUsers) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) CreateUser(_ context.Context, user *appModels.User) (int64, error) {
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return user.ID, nil
}

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func TestCreateDefaultData_CreatesAdminOnce(t *testing.T) {
	store := &memUsers{}
	admin := Admin{Email: " Root@Example.EDU ", Password: "changeme123", FirstName: "Grace", LastName: "Hopper"}

	require.NoError(t, CreateDefaultData(context.Background(), store, admin, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(context.Background(), store, admin, zerolog.Nop()))

	require.Len(t, store.users, 1)
	u := store.users[0]
	assert.Equal(t, "root@example.edu", u.Email)
	assert.Equal(t, appModels.RoleAdmin, u.RoleType)
	assert.True(t, u.IsActive)
	assert.Nil(t, u.InvitedByID)
	assert.True(t, auth.CheckPassword(u.Password, "changeme123"))
}

func TestCreateDefaultData_SkipsWithoutEmail(t *testing.T) {
	store := &memUsers{}
	require.NoError(t, CreateDefaultData(context.Background(), store, Admin{}, zerolog.Nop()))
	assert.Empty(t, store.users)
}

func TestCreateAdmin_Incomplete(t *testing.T) {
	_, _, err := CreateAdmin(context.Background(), &memUsers{}, Admin{Email: "a@b.edu"})
	assert.ErrorIs(t, err, ErrAdminSeedIncomplete)
}
