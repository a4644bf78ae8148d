package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mediqore/hospital-api/internal/database"
	"github.com/mediqore/hospital-api/internal/models"
	"github.com/mediqore/hospital-api/internal/response"
	"github.com/mediqore/hospital-api/internal/services"
)

// Handler carries the database and service collaborators every route needs.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	Notify *services.Notifier
	Docs   *services.DocumentRenderer
	Cache  *services.AnalyticsCache
}

func NewHandler(db *mongo.Database, log *zap.Logger, notify *services.Notifier,
	docs *services.DocumentRenderer, cache *services.AnalyticsCache) *Handler {
	return &Handler{DB: db, Log: log, Notify: notify, Docs: docs, Cache: cache}
}

// paramID parses the :id route segment, answering 400 itself on bad input.
func paramID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) findPatient(ctx context.Context, id primitive.ObjectID) (*models.Patient, error) {
	var p models.Patient
	err := h.DB.Collection(database.ColPatients).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *Handler) findDoctor(ctx context.Context, id primitive.ObjectID) (*models.Doctor, error) {
	var d models.Doctor
	err := h.DB.Collection(database.ColDoctors).FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *Handler) findAppointment(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	var a models.Appointment
	err := h.DB.Collection(database.ColAppointments).FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// patientForUser resolves the caller's linked Patient record for
// ownership-restricted reads. mongo.ErrNoDocuments means no linkage.
func (h *Handler) patientForUser(ctx context.Context, userID primitive.ObjectID) (*models.Patient, error) {
	var p models.Patient
	err := h.DB.Collection(database.ColPatients).FindOne(ctx, bson.M{"userId": userID}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// doctorForUser resolves the caller's own Doctor record for doctor-role
// scoping.
func (h *Handler) doctorForUser(ctx context.Context, userID primitive.ObjectID) (*models.Doctor, error) {
	var d models.Doctor
	err := h.DB.Collection(database.ColDoctors).FindOne(ctx, bson.M{"userId": userID}).Decode(&d)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// patientRefs batch-loads the population subset for a set of patient ids.
func (h *Handler) patientRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.PatientRef, error) {
	refs := make(map[primitive.ObjectID]*models.PatientRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	cursor, err := h.DB.Collection(database.ColPatients).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var p models.Patient
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		refs[p.ID] = p.Ref()
	}
	return refs, cursor.Err()
}

func (h *Handler) doctorRefs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.DoctorRef, error) {
	refs := make(map[primitive.ObjectID]*models.DoctorRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	cursor, err := h.DB.Collection(database.ColDoctors).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var d models.Doctor
		if err := cursor.Decode(&d); err != nil {
			return nil, err
		}
		refs[d.ID] = d.Ref()
	}
	return refs, cursor.Err()
}

// internalError logs the cause server-side and answers the generic 500.
func (h *Handler) internalError(c *gin.Context, what string, err error) {
	h.Log.Error(what, zap.Error(err), zap.String("path", c.FullPath()))
	response.Internal(c)
}
