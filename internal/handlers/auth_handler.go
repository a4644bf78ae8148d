package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mediqore/hospital-api/internal/database"
	"github.com/mediqore/hospital-api/internal/middleware"
	"github.com/mediqore/hospital-api/internal/models"
	"github.com/mediqore/hospital-api/internal/response"
	"github.com/mediqore/hospital-api/internal/utils"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePatient
	}
	if !models.ValidRole(role) {
		response.BadRequest(c, "Invalid role")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.internalError(c, "hash password", err)
		return
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = h.DB.Collection(database.ColUsers).InsertOne(c.Request.Context(), user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			response.BadRequest(c, "An account with this email already exists")
			return
		}
		h.internalError(c, "insert user", err)
		return
	}

	response.Created(c, gin.H{"user": user})
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request")
		return
	}

	var user models.User
	err := h.DB.Collection(database.ColUsers).FindOne(c.Request.Context(), bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		h.internalError(c, "generate token", err)
		return
	}

	h.Log.Info("user logged in", zap.String("userId", user.ID.Hex()), zap.String("role", user.Role))
	response.OK(c, gin.H{"token": token, "user": user})
}

// ForgotPassword always answers the same message so the endpoint cannot be
// used to probe which emails have accounts.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request")
		return
	}

	const reply = "If that account exists, a reset code has been sent"

	token := uuid.NewString()
	res, err := h.DB.Collection(database.ColUsers).UpdateOne(c.Request.Context(),
		bson.M{"email": req.Email},
		bson.M{"$set": bson.M{
			"resetToken":       token,
			"resetTokenExpiry": time.Now().Add(time.Hour),
			"updatedAt":        time.Now(),
		}})
	if err != nil {
		h.internalError(c, "store reset token", err)
		return
	}
	if res.MatchedCount > 0 {
		h.Notify.SendPasswordReset(req.Email, token)
	}

	response.Message(c, nil, reply)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var user models.User
	err := h.DB.Collection(database.ColUsers).FindOne(c.Request.Context(),
		bson.M{"resetToken": req.Token, "resetTokenExpiry": bson.M{"$gt": time.Now()}}).Decode(&user)
	if err != nil {
		response.BadRequest(c, "Invalid or expired reset token")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		h.internalError(c, "hash password", err)
		return
	}

	_, err = h.DB.Collection(database.ColUsers).UpdateOne(c.Request.Context(),
		bson.M{"_id": user.ID},
		bson.M{
			"$set":   bson.M{"password": hashed, "updatedAt": time.Now()},
			"$unset": bson.M{"resetToken": "", "resetTokenExpiry": ""},
		})
	if err != nil {
		h.internalError(c, "update password", err)
		return
	}

	response.Message(c, nil, "Password updated")
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	var user models.User
	err := h.DB.Collection(database.ColUsers).FindOne(c.Request.Context(),
		bson.M{"_id": middleware.CallerID(c)}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "User not found")
			return
		}
		h.internalError(c, "find user", err)
		return
	}
	response.OK(c, gin.H{"user": user})
}

// UpdateMe lets a user change their own name or email.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req struct {
		Name  *string `json:"name,omitempty"`
		Email *string `json:"email,omitempty" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if len(set) == 0 {
		response.BadRequest(c, "No update fields provided")
		return
	}
	set["updatedAt"] = time.Now()

	res, err := h.DB.Collection(database.ColUsers).UpdateOne(c.Request.Context(),
		bson.M{"_id": middleware.CallerID(c)}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			response.BadRequest(c, "An account with this email already exists")
			return
		}
		h.internalError(c, "update profile", err)
		return
	}
	if res.MatchedCount == 0 {
		response.NotFound(c, "User not found")
		return
	}

	response.Message(c, nil, "Profile updated")
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(c *gin.Context) {
	if err := h.DB.Client().Ping(c.Request.Context(), nil); err != nil {
		response.Error(c, http.StatusInternalServerError, "Database unreachable")
		return
	}
	response.Message(c, nil, "ok")
}
