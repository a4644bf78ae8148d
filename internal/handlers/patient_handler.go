package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mediqore/hospital-api/internal/database"
	"github.com/mediqore/hospital-api/internal/middleware"
	"github.com/mediqore/hospital-api/internal/models"
	"github.com/mediqore/hospital-api/internal/query"
	"github.com/mediqore/hospital-api/internal/response"
	"github.com/mediqore/hospital-api/internal/validation"
)

type createPatientRequest struct {
	Name    string `json:"name" binding:"required"`
	Age     int    `json:"age" binding:"min=0,max=150"`
	Gender  string `json:"gender" binding:"required"`
	Phone   string `json:"phone" binding:"required,phone"`
	Address string `json:"address"`
	UserID  string `json:"userId"`
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !models.ValidGender(req.Gender) {
		response.BadRequest(c, "Gender must be Male, Female or Other")
		return
	}

	ctx := c.Request.Context()
	col := h.DB.Collection(database.ColPatients)

	// Uniqueness is checked up front for a clean error; the unique index is
	// the backstop under concurrent creates.
	count, err := col.CountDocuments(ctx, bson.M{"phone": req.Phone})
	if err != nil {
		h.internalError(c, "check phone", err)
		return
	}
	if count > 0 {
		response.BadRequest(c, "A patient with this phone number already exists")
		return
	}

	now := time.Now()
	patient := models.Patient{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Age:       req.Age,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedBy: middleware.CallerID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.UserID != "" {
		userID, err := primitive.ObjectIDFromHex(req.UserID)
		if err != nil {
			response.BadRequest(c, "Invalid userId")
			return
		}
		patient.UserID = userID
	}

	if _, err := col.InsertOne(ctx, patient); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			response.BadRequest(c, "A patient with this phone number already exists")
			return
		}
		h.internalError(c, "insert patient", err)
		return
	}

	response.Created(c, gin.H{"patient": patient})
}

func (h *Handler) ListPatients(c *gin.Context) {
	ctx := c.Request.Context()
	params := query.Parse(c, "createdAt", true, "name", "age", "phone", "createdAt")

	filter := bson.M{}
	if gender := c.Query("gender"); gender != "" {
		filter["gender"] = gender
	}
	if search := c.Query("search"); search != "" {
		regex := query.SearchRegex(search)
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"phone": regex},
		}
	}

	col := h.DB.Collection(database.ColPatients)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		h.internalError(c, "count patients", err)
		return
	}

	cursor, err := col.Find(ctx, filter, params.FindOptions())
	if err != nil {
		h.internalError(c, "find patients", err)
		return
	}
	defer cursor.Close(ctx)

	patients := make([]models.Patient, 0)
	if err := cursor.All(ctx, &patients); err != nil {
		h.internalError(c, "decode patients", err)
		return
	}

	response.Paginated(c, gin.H{"patients": patients}, params.Pagination(total))
}

// SearchPatients is the quick lookup box: name or phone substring, capped at
// 20 rows, no pagination.
func (h *Handler) SearchPatients(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "Query parameter q is required")
		return
	}

	regex := query.SearchRegex(q)
	ctx := c.Request.Context()
	cursor, err := h.DB.Collection(database.ColPatients).Find(ctx,
		bson.M{"$or": bson.A{bson.M{"name": regex}, bson.M{"phone": regex}}},
		options.Find().SetLimit(20).SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		h.internalError(c, "search patients", err)
		return
	}
	defer cursor.Close(ctx)

	patients := make([]models.Patient, 0)
	if err := cursor.All(ctx, &patients); err != nil {
		h.internalError(c, "decode patients", err)
		return
	}

	response.OK(c, gin.H{"patients": patients})
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	patient, err := h.findPatient(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Patient not found")
			return
		}
		h.internalError(c, "find patient", err)
		return
	}

	if middleware.CallerRole(c) == models.RolePatient {
		own, err := h.patientForUser(ctx, middleware.CallerID(c))
		if err != nil || own.ID != patient.ID {
			response.Forbidden(c, "You can only view your own record")
			return
		}
	}

	response.OK(c, gin.H{"patient": patient})
}

type updatePatientRequest struct {
	Name    *string `json:"name,omitempty"`
	Age     *int    `json:"age,omitempty"`
	Gender  *string `json:"gender,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	col := h.DB.Collection(database.ColPatients)
	patient, err := h.findPatient(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Patient not found")
			return
		}
		h.internalError(c, "find patient", err)
		return
	}

	if req.Name == nil && req.Age == nil && req.Gender == nil && req.Phone == nil && req.Address == nil {
		response.BadRequest(c, "No update fields provided")
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Age != nil {
		if *req.Age < 0 || *req.Age > 150 {
			response.BadRequest(c, "Age must be between 0 and 150")
			return
		}
		set["age"] = *req.Age
	}
	if req.Gender != nil {
		if !models.ValidGender(*req.Gender) {
			response.BadRequest(c, "Gender must be Male, Female or Other")
			return
		}
		set["gender"] = *req.Gender
	}
	if req.Phone != nil && *req.Phone != patient.Phone {
		if !validation.PhoneValid(*req.Phone) {
			response.BadRequest(c, "Phone must be 10 digits")
			return
		}
		count, err := col.CountDocuments(ctx, bson.M{"phone": *req.Phone, "_id": bson.M{"$ne": id}})
		if err != nil {
			h.internalError(c, "check phone", err)
			return
		}
		if count > 0 {
			response.BadRequest(c, "A patient with this phone number already exists")
			return
		}
		set["phone"] = *req.Phone
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	// A supplied phone equal to the current one adds nothing to set; the
	// update is still a no-op success under fetch-then-merge.
	set["updatedAt"] = time.Now()

	if _, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		h.internalError(c, "update patient", err)
		return
	}

	updated, err := h.findPatient(ctx, id)
	if err != nil {
		h.internalError(c, "reload patient", err)
		return
	}
	response.OK(c, gin.H{"patient": updated})
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.findPatient(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Patient not found")
			return
		}
		h.internalError(c, "find patient", err)
		return
	}

	if _, err := h.DB.Collection(database.ColPatients).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		h.internalError(c, "delete patient", err)
		return
	}

	response.Message(c, nil, "Patient deleted")
}
