package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mediqore/hospital-api/internal/handlers"
	"github.com/mediqore/hospital-api/internal/models"
	"github.com/mediqore/hospital-api/internal/utils"
)

type fakeUsers struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeUsers) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, mongo.ErrNoDocuments
}

// testRouter wires the real route table over a handler with no store. Every
// request below is rejected by the auth or role layer, so no handler body
// ever runs.
func testRouter(t *testing.T, roles ...string) (*gin.Engine, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.InitJWT("test-secret", time.Hour)

	users := &fakeUsers{users: map[primitive.ObjectID]*models.User{}}
	tokens := map[string]string{}
	for _, role := range roles {
		u := &models.User{ID: primitive.NewObjectID(), Role: role}
		users.users[u.ID] = u
		token, err := utils.GenerateJWT(u.ID.Hex(), role)
		require.NoError(t, err)
		tokens[role] = token
	}

	h := handlers.NewHandler(nil, zap.NewNop(), nil, nil, nil)
	return New(h, users, []string{"*"}), tokens
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedGets401(t *testing.T) {
	r, _ := testRouter(t)
	w := doRequest(r, "GET", "/api/patients", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleOutsideAllowListGets403(t *testing.T) {
	r, tokens := testRouter(t, models.RolePatient, models.RoleReception, models.RoleDoctor)
	id := primitive.NewObjectID().Hex()

	cases := []struct {
		method, path, role string
	}{
		{"POST", "/api/patients", models.RolePatient},
		{"DELETE", "/api/patients/" + id, models.RoleReception},
		{"POST", "/api/doctors", models.RoleReception},
		{"GET", "/api/bills", models.RoleDoctor},
		{"POST", "/api/reports", models.RoleReception},
		{"GET", "/api/admin/analytics", models.RoleDoctor},
		{"DELETE", "/api/bills/" + id, models.RoleReception},
	}
	for _, tc := range cases {
		w := doRequest(r, tc.method, tc.path, tokens[tc.role])
		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s as %s", tc.method, tc.path, tc.role)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestDocumentRoutesAreStaffOnly(t *testing.T) {
	r, tokens := testRouter(t, models.RolePatient, models.RoleReception, models.RoleDoctor)
	id := primitive.NewObjectID().Hex()

	// Report documents: admin and doctor only.
	w := doRequest(r, "GET", "/api/reports/"+id+"/pdf", tokens[models.RolePatient])
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(r, "GET", "/api/reports/"+id+"/pdf", tokens[models.RoleReception])
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Bill documents: admin and reception only.
	w = doRequest(r, "GET", "/api/bills/"+id+"/pdf", tokens[models.RolePatient])
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(r, "GET", "/api/bills/"+id+"/pdf", tokens[models.RoleDoctor])
	assert.Equal(t, http.StatusForbidden, w.Code)
}
