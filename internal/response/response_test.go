package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)
	return w
}

func TestOK(t *testing.T) {
	w := record(func(c *gin.Context) {
		OK(c, gin.H{"patients": []string{}})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "data")
	assert.NotContains(t, body, "error")
}

func TestErrorEnvelope(t *testing.T) {
	w := record(func(c *gin.Context) {
		NotFound(c, "Patient not found")
	})

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Patient not found", body["error"])
	assert.NotContains(t, body, "data")
}

func TestPaginatedEnvelope(t *testing.T) {
	w := record(func(c *gin.Context) {
		Paginated(c, gin.H{"patients": []string{}}, &Pagination{Page: 1, Limit: 10, Total: 0, Pages: 0})
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success    bool        `json:"success"`
		Pagination *Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, int64(1), body.Pagination.Page)
	assert.Equal(t, int64(10), body.Pagination.Limit)
	assert.Equal(t, int64(0), body.Pagination.Total)
	assert.Equal(t, int64(0), body.Pagination.Pages)
}

func TestInternalHidesDetail(t *testing.T) {
	w := record(Internal)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}
