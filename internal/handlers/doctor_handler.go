package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mediqore/hospital-api/internal/database"
	"github.com/mediqore/hospital-api/internal/middleware"
	"github.com/mediqore/hospital-api/internal/models"
	"github.com/mediqore/hospital-api/internal/query"
	"github.com/mediqore/hospital-api/internal/response"
)

type createDoctorRequest struct {
	Name           string                    `json:"name" binding:"required"`
	Specialization string                    `json:"specialization" binding:"required"`
	Phone          string                    `json:"phone" binding:"required,phone"`
	Email          string                    `json:"email" binding:"required,email"`
	Availability   []models.AvailabilitySlot `json:"availability"`
	UserID         string                    `json:"userId" binding:"required"`
}

func validAvailability(slots []models.AvailabilitySlot) bool {
	for _, slot := range slots {
		if !models.ValidWeekDay(slot.Day) {
			return false
		}
	}
	return true
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !validAvailability(req.Availability) {
		response.BadRequest(c, "Availability day must be a weekday name")
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		response.BadRequest(c, "Invalid userId")
		return
	}

	ctx := c.Request.Context()

	// Every doctor has an account.
	var user models.User
	if err := h.DB.Collection(database.ColUsers).FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "User not found")
			return
		}
		h.internalError(c, "find user", err)
		return
	}

	now := time.Now()
	doctor := models.Doctor{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Email:          req.Email,
		Availability:   req.Availability,
		UserID:         userID,
		CreatedBy:      middleware.CallerID(c),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := h.DB.Collection(database.ColDoctors).InsertOne(ctx, doctor); err != nil {
		h.internalError(c, "insert doctor", err)
		return
	}

	response.Created(c, gin.H{"doctor": doctor})
}

func (h *Handler) ListDoctors(c *gin.Context) {
	ctx := c.Request.Context()
	params := query.Parse(c, "createdAt", true, "name", "specialization", "createdAt")

	filter := bson.M{}
	if spec := c.Query("specialization"); spec != "" {
		filter["specialization"] = spec
	}
	if search := c.Query("search"); search != "" {
		filter["name"] = query.SearchRegex(search)
	}

	col := h.DB.Collection(database.ColDoctors)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		h.internalError(c, "count doctors", err)
		return
	}

	cursor, err := col.Find(ctx, filter, params.FindOptions())
	if err != nil {
		h.internalError(c, "find doctors", err)
		return
	}
	defer cursor.Close(ctx)

	doctors := make([]models.Doctor, 0)
	if err := cursor.All(ctx, &doctors); err != nil {
		h.internalError(c, "decode doctors", err)
		return
	}

	response.Paginated(c, gin.H{"doctors": doctors}, params.Pagination(total))
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	doctor, err := h.findDoctor(c.Request.Context(), id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Doctor not found")
			return
		}
		h.internalError(c, "find doctor", err)
		return
	}

	response.OK(c, gin.H{"doctor": doctor})
}

type updateDoctorRequest struct {
	Name           *string                    `json:"name,omitempty"`
	Specialization *string                    `json:"specialization,omitempty"`
	Phone          *string                    `json:"phone,omitempty"`
	Email          *string                    `json:"email,omitempty" binding:"omitempty,email"`
	Availability   *[]models.AvailabilitySlot `json:"availability,omitempty"`
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := h.findDoctor(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Doctor not found")
			return
		}
		h.internalError(c, "find doctor", err)
		return
	}

	set := bson.M{}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Specialization != nil {
		set["specialization"] = *req.Specialization
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Availability != nil {
		if !validAvailability(*req.Availability) {
			response.BadRequest(c, "Availability day must be a weekday name")
			return
		}
		set["availability"] = *req.Availability
	}
	if len(set) == 0 {
		response.BadRequest(c, "No update fields provided")
		return
	}
	set["updatedAt"] = time.Now()

	col := h.DB.Collection(database.ColDoctors)
	if _, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		h.internalError(c, "update doctor", err)
		return
	}

	updated, err := h.findDoctor(ctx, id)
	if err != nil {
		h.internalError(c, "reload doctor", err)
		return
	}
	response.OK(c, gin.H{"doctor": updated})
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.findDoctor(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Doctor not found")
			return
		}
		h.internalError(c, "find doctor", err)
		return
	}

	if _, err := h.DB.Collection(database.ColDoctors).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		h.internalError(c, "delete doctor", err)
		return
	}

	response.Message(c, nil, "Doctor deleted")
}
