package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/headta/internal/app/models"
	"github.com/yigit/headta/internal/app/models/dto"
	"github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/middleware"
	"github.com/yigit/headta/internal/pkg/apperrors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeClaimService struct {
	claimerID, targetID int64
	adminID             int64
	err                 error
	candidates          []*models.User
}

func (f *fakeClaimService) ClaimProfile(_ context.Context, claimerID, targetID int64) (*services.ClaimResult, error) {
	f.claimerID, f.targetID = claimerID, targetID
	if f.err != nil {
		return nil, f.err
	}
	return &services.ClaimResult{ClaimedProfileID: targetID, ClaimingUserID: claimerID, AssignmentsTransferred: 2, Transferred: true}, nil
}

func (f *fakeClaimService) AdminClaimProfile(_ context.Context, adminID, claimerID, targetID int64) (*services.ClaimResult, error) {
	f.adminID = adminID
	return f.ClaimProfile(context.Background(), claimerID, targetID)
}

func (f *fakeClaimService) FindClaimCandidates(_ context.Context, _ int64) ([]*models.User, error) {
	return f.candidates, f.err
}

type fakeTreeService struct {
	gotRoot *int64
	forest  []*services.InvitationTreeNode
	err     error
}

func (f *fakeTreeService) BuildTree(_ context.Context, rootID int64) (*services.InvitationTreeNode, error) {
	return nil, f.err
}

func (f *fakeTreeService) BuildForest(_ context.Context, rootUserID *int64) ([]*services.InvitationTreeNode, error) {
	f.gotRoot = rootUserID
	return f.forest, f.err
}

type fakeDirectoryService struct {
	query   string
	results []dto.DirectorySearchResult
	err     error
}

func (f *fakeDirectoryService) Search(_ context.Context, query string) ([]dto.DirectorySearchResult, error) {
	f.query = query
	return f.results, f.err
}

func (f *fakeDirectoryService) HeadTAsForCourse(_ context.Context, courseID int64) ([]dto.CourseHeadTAResponse, error) {
	return nil, f.err
}

// asUser stands in for JWTAuth
func asUser(id int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestClaimProfile(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{name: "success", body: dto.ClaimProfileRequest{UnclaimedUserID: 7}, wantStatus: http.StatusOK},
		{name: "missing target", body: map[string]int{}, wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeValidationFailed},
		{name: "already claimed", body: dto.ClaimProfileRequest{UnclaimedUserID: 7}, serviceErr: apperrors.ErrProfileAlreadyClaimed,
			wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeAlreadyClaimed},
		{name: "name mismatch", body: dto.ClaimProfileRequest{UnclaimedUserID: 7}, serviceErr: apperrors.ErrNameMismatch,
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeNameMismatch},
		{name: "unknown profile", body: dto.ClaimProfileRequest{UnclaimedUserID: 7}, serviceErr: apperrors.ErrUserNotFound,
			wantStatus: http.StatusNotFound, wantCode: dto.ErrorCodeResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &fakeClaimService{err: tt.serviceErr}
			c := NewUserController(nil, claims, nil, zerolog.Nop())
			r := gin.New()
			r.POST("/users/me/claim", asUser(3), c.ClaimProfile)

			w := doRequest(r, http.MethodPost, "/users/me/claim", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			env := decode(t, w)
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				return
			}

			var got dto.ClaimResultResponse
			require.NoError(t, json.Unmarshal(env.Data, &got))
			assert.Equal(t, dto.ClaimResultResponse{ClaimedProfileID: 7, ClaimingUserID: 3, AssignmentsTransferred: 2, Transferred: true}, got)
			assert.Equal(t, int64(3), claims.claimerID)
		})
	}
}

func TestClaimProfile_RequiresAuthentication(t *testing.T) {
	c := NewUserController(nil, &fakeClaimService{}, nil, zerolog.Nop())
	r := gin.New()
	r.POST("/users/me/claim", c.ClaimProfile)

	w := doRequest(r, http.MethodPost, "/users/me/claim", dto.ClaimProfileRequest{UnclaimedUserID: 7})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetClaimCandidates(t *testing.T) {
	claims := &fakeClaimService{candidates: []*models.User{{ID: 9, FirstName: "Bob", LastName: "Smith", IsUnclaimed: true}}}
	c := NewUserController(nil, claims, nil, zerolog.Nop())
	r := gin.New()
	r.GET("/users/me/claim-candidates", asUser(3), c.GetClaimCandidates)

	w := doRequest(r, http.MethodGet, "/users/me/claim-candidates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []dto.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(9), got[0].ID)
	assert.True(t, got[0].IsUnclaimed)
}

func TestAdminClaimOnBehalf(t *testing.T) {
	claims := &fakeClaimService{}
	c := NewAdminController(nil, claims, nil, zerolog.Nop())
	r := gin.New()
	r.POST("/admin/claims", asUser(1), c.ClaimOnBehalf)

	w := doRequest(r, http.MethodPost, "/admin/claims", dto.AdminClaimRequest{ClaimingUserID: 4, UnclaimedUserID: 8})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(1), claims.adminID)
	assert.Equal(t, int64(4), claims.claimerID)
	assert.Equal(t, int64(8), claims.targetID)
}

func TestGetInvitationTree(t *testing.T) {
	admin := &models.User{ID: 1, FirstName: "Ada", LastName: "Admin", RoleType: models.RoleAdmin}
	invitee := &models.User{ID: 2, FirstName: "Tom", LastName: "TA", RoleType: models.RoleHeadTA, InvitedByID: &admin.ID}
	forest := []*services.InvitationTreeNode{{
		User:     admin,
		Invitees: []*services.InvitationTreeNode{{User: invitee}},
		Stats:    services.TreeStats{TotalDescendants: 1, MaxDepth: 1},
	}}

	t.Run("whole forest", func(t *testing.T) {
		trees := &fakeTreeService{forest: forest}
		r := gin.New()
		r.GET("/invitation-tree", NewTreeController(trees).GetInvitationTree)

		w := doRequest(r, http.MethodGet, "/invitation-tree", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, trees.gotRoot)

		var got dto.InvitationForestResponse
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
		assert.Equal(t, 2, got.TotalUsers)
		require.Len(t, got.Roots, 1)
		assert.Equal(t, int64(1), got.Roots[0].Identity.ID)
		require.Len(t, got.Roots[0].Invitees, 1)
		assert.Equal(t, int64(2), got.Roots[0].Invitees[0].Identity.ID)
		assert.Empty(t, got.Roots[0].Invitees[0].Invitees)
		assert.Equal(t, 1, got.Roots[0].Stats.MaxDepth)
	})

	t.Run("single root", func(t *testing.T) {
		trees := &fakeTreeService{forest: forest}
		r := gin.New()
		r.GET("/invitation-tree", NewTreeController(trees).GetInvitationTree)

		w := doRequest(r, http.MethodGet, "/invitation-tree?rootUserId=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, trees.gotRoot)
		assert.Equal(t, int64(1), *trees.gotRoot)
	})

	t.Run("bad root", func(t *testing.T) {
		r := gin.New()
		r.GET("/invitation-tree", NewTreeController(&fakeTreeService{}).GetInvitationTree)

		w := doRequest(r, http.MethodGet, "/invitation-tree?rootUserId=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown root", func(t *testing.T) {
		r := gin.New()
		r.GET("/invitation-tree", NewTreeController(&fakeTreeService{err: apperrors.ErrUserNotFound}).GetInvitationTree)

		w := doRequest(r, http.MethodGet, "/invitation-tree?rootUserId=42", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("cycle is a server error", func(t *testing.T) {
		r := gin.New()
		r.GET("/invitation-tree", NewTreeController(&fakeTreeService{err: apperrors.ErrInvitationCycle}).GetInvitationTree)

		w := doRequest(r, http.MethodGet, "/invitation-tree", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrorCodeDataIntegrity, decode(t, w).Error.Code)
	})
}

func TestDirectorySearch(t *testing.T) {
	dir := &fakeDirectoryService{results: []dto.DirectorySearchResult{{User: dto.UserResponse{ID: 5}, MatchedOn: services.MatchedOnName}}}
	r := gin.New()
	r.GET("/directory/search", NewDirectoryController(nil, dir).Search)

	w := doRequest(r, http.MethodGet, "/directory/search?q=smith", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "smith", dir.query)

	w = doRequest(r, http.MethodGet, "/directory/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/users/:id", NewUserController(nil, nil, nil, zerolog.Nop()).GetUser)

	for _, path := range []string{"/users/abc", "/users/0", "/users/-4"} {
		w := doRequest(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
