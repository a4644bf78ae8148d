package handlers

import (
	"context"
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

type createAppointmentRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	DoctorID  string `json:"doctorId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		response.BadRequest(c, "Invalid patientId")
		return
	}
	doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
	if err != nil {
		response.BadRequest(c, "Invalid doctorId")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(c, "Date must be formatted as YYYY-MM-DD")
		return
	}

	ctx := c.Request.Context()

	// Both references must exist before anything is written.
	patient, err := h.findPatient(ctx, patientID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Patient not found")
			return
		}
		h.internalError(c, "find patient", err)
		return
	}
	doctor, err := h.findDoctor(ctx, doctorID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Doctor not found")
			return
		}
		h.internalError(c, "find doctor", err)
		return
	}

	now := time.Now()
	apt := models.Appointment{
		ID:        primitive.NewObjectID(),
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      req.Time,
		Status:    models.AppointmentPending,
		Reason:    req.Reason,
		Notes:     req.Notes,
		CreatedBy: middleware.CallerID(c),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := h.DB.Collection(database.ColAppointments).InsertOne(ctx, apt); err != nil {
		h.internalError(c, "insert appointment", err)
		return
	}

	detail := models.AppointmentDetail{Appointment: apt, Patient: patient.Ref(), Doctor: doctor.Ref()}
	response.Created(c, gin.H{"appointment": detail})
}

// populateAppointments expands patient and doctor references with two batch
// lookups instead of one query per row.
func (h *Handler) populateAppointments(ctx context.Context, apts []models.Appointment) ([]models.AppointmentDetail, error) {
	patientIDs := make([]primitive.ObjectID, 0, len(apts))
	doctorIDs := make([]primitive.ObjectID, 0, len(apts))
	for _, a := range apts {
		patientIDs = append(patientIDs, a.PatientID)
		doctorIDs = append(doctorIDs, a.DoctorID)
	}

	patients, err := h.patientRefs(ctx, patientIDs)
	if err != nil {
		return nil, err
	}
	doctors, err := h.doctorRefs(ctx, doctorIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.AppointmentDetail, 0, len(apts))
	for _, a := range apts {
		details = append(details, models.AppointmentDetail{
			Appointment: a,
			Patient:     patients[a.PatientID],
			Doctor:      doctors[a.DoctorID],
		})
	}
	return details, nil
}

// listAppointments runs the shared paginated fetch for the three listing
// routes; extra narrows the base filter.
func (h *Handler) listAppointments(c *gin.Context, extra bson.M) {
	ctx := c.Request.Context()
	params := query.Parse(c, "date", true, "date", "status", "createdAt")

	filter := bson.M{}
	for k, v := range extra {
		filter[k] = v
	}

	// Doctor callers only ever see their own schedule.
	if middleware.CallerRole(c) == models.RoleDoctor {
		own, err := h.doctorForUser(ctx, middleware.CallerID(c))
		if err != nil {
			if err == mongo.ErrNoDocuments {
				response.Paginated(c, gin.H{"appointments": []models.AppointmentDetail{}}, params.Pagination(0))
				return
			}
			h.internalError(c, "resolve doctor", err)
			return
		}
		filter["doctorId"] = own.ID
	}

	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if dateStr := c.Query("date"); dateStr != "" {
		if start, end, ok := query.DayRange(dateStr); ok {
			filter["date"] = bson.M{"$gte": start, "$lt": end}
		}
	}

	col := h.DB.Collection(database.ColAppointments)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		h.internalError(c, "count appointments", err)
		return
	}

	cursor, err := col.Find(ctx, filter, params.FindOptions())
	if err != nil {
		h.internalError(c, "find appointments", err)
		return
	}
	defer cursor.Close(ctx)

	apts := make([]models.Appointment, 0)
	if err := cursor.All(ctx, &apts); err != nil {
		h.internalError(c, "decode appointments", err)
		return
	}

	details, err := h.populateAppointments(ctx, apts)
	if err != nil {
		h.internalError(c, "populate appointments", err)
		return
	}

	response.Paginated(c, gin.H{"appointments": details}, params.Pagination(total))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	h.listAppointments(c, bson.M{})
}

func (h *Handler) ListAppointmentsByPatient(c *gin.Context) {
	patientID, err := primitive.ObjectIDFromHex(c.Param("patientId"))
	if err != nil {
		response.BadRequest(c, "Invalid patientId")
		return
	}
	h.listAppointments(c, bson.M{"patientId": patientID})
}

func (h *Handler) ListAppointmentsByDoctor(c *gin.Context) {
	doctorID, err := primitive.ObjectIDFromHex(c.Param("doctorId"))
	if err != nil {
		response.BadRequest(c, "Invalid doctorId")
		return
	}
	h.listAppointments(c, bson.M{"doctorId": doctorID})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	apt, err := h.findAppointment(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Appointment not found")
			return
		}
		h.internalError(c, "find appointment", err)
		return
	}

	switch middleware.CallerRole(c) {
	case models.RolePatient:
		own, err := h.patientForUser(ctx, middleware.CallerID(c))
		if err != nil || own.ID != apt.PatientID {
			response.Forbidden(c, "You can only view your own appointments")
			return
		}
	case models.RoleDoctor:
		own, err := h.doctorForUser(ctx, middleware.CallerID(c))
		if err != nil || own.ID != apt.DoctorID {
			response.Forbidden(c, "You can only view your own appointments")
			return
		}
	}

	details, err := h.populateAppointments(ctx, []models.Appointment{*apt})
	if err != nil {
		h.internalError(c, "populate appointment", err)
		return
	}
	response.OK(c, gin.H{"appointment": details[0]})
}

type updateAppointmentRequest struct {
	Date   *string `json:"date,omitempty"`
	Time   *string `json:"time,omitempty"`
	Status *string `json:"status,omitempty"`
	Reason *string `json:"reason,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	apt, err := h.findAppointment(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Appointment not found")
			return
		}
		h.internalError(c, "find appointment", err)
		return
	}

	// Doctors may only touch their own schedule.
	if middleware.CallerRole(c) == models.RoleDoctor {
		own, err := h.doctorForUser(ctx, middleware.CallerID(c))
		if err != nil || own.ID != apt.DoctorID {
			response.Forbidden(c, "You can only update your own appointments")
			return
		}
	}

	set := bson.M{}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			response.BadRequest(c, "Date must be formatted as YYYY-MM-DD")
			return
		}
		set["date"] = date
	}
	if req.Time != nil {
		set["time"] = *req.Time
	}
	if req.Status != nil {
		if !models.ValidAppointmentStatus(*req.Status) {
			response.BadRequest(c, "Status must be pending, approved, cancelled or completed")
			return
		}
		set["status"] = *req.Status
	}
	if req.Reason != nil {
		set["reason"] = *req.Reason
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if len(set) == 0 {
		response.BadRequest(c, "No update fields provided")
		return
	}
	set["updatedAt"] = time.Now()

	col := h.DB.Collection(database.ColAppointments)
	if _, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		h.internalError(c, "update appointment", err)
		return
	}

	updated, err := h.findAppointment(ctx, id)
	if err != nil {
		h.internalError(c, "reload appointment", err)
		return
	}
	details, err := h.populateAppointments(ctx, []models.Appointment{*updated})
	if err != nil {
		h.internalError(c, "populate appointment", err)
		return
	}
	response.OK(c, gin.H{"appointment": details[0]})
}

// NotifyAppointment pushes a reminder through the notification gateway and
// records that it went out.
func (h *Handler) NotifyAppointment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	apt, err := h.findAppointment(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Appointment not found")
			return
		}
		h.internalError(c, "find appointment", err)
		return
	}

	patient, err := h.findPatient(ctx, apt.PatientID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Patient not found")
			return
		}
		h.internalError(c, "find patient", err)
		return
	}

	if err := h.Notify.SendAppointmentReminder(ctx, patient, apt); err != nil {
		h.internalError(c, "send reminder", err)
		return
	}

	_, err = h.DB.Collection(database.ColAppointments).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"notificationSent": true, "updatedAt": time.Now()}})
	if err != nil {
		h.internalError(c, "flag notification", err)
		return
	}

	response.Message(c, nil, "Notification sent")
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if _, err := h.findAppointment(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Appointment not found")
			return
		}
		h.internalError(c, "find appointment", err)
		return
	}

	if _, err := h.DB.Collection(database.ColAppointments).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		h.internalError(c, "delete appointment", err)
		return
	}

	response.Message(c, nil, "Appointment deleted")
}
