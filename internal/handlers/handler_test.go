package handlers

import (
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"github.com/mediqore/hospital-api/internal/middleware"
)

func newTestHandler(mt *mtest.T) *Handler {
	return NewHandler(mt.DB, zap.NewNop(), nil, nil, nil)
}

// invoke runs a single handler with an authenticated test context, the way
// it executes after the auth and role middleware have passed.
func invoke(fn gin.HandlerFunc, method, target, body, role string,
	userID primitive.ObjectID, params gin.Params) *httptest.ResponseRecorder {

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxUserRole, role)
	fn(c)
	return w
}

func patientDoc(id, userID primitive.ObjectID, phone string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Asha Rao"},
		{Key: "age", Value: 34},
		{Key: "gender", Value: "Female"},
		{Key: "phone", Value: phone},
		{Key: "userId", Value: userID},
	}
}
