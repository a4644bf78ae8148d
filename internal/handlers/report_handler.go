package handlers

import (
	"context"
	"net/http"
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

type createReportRequest struct {
	AppointmentID string           `json:"appointmentId" binding:"required"`
	PatientID     string           `json:"patientId" binding:"required"`
	DoctorID      string           `json:"doctorId" binding:"required"`
	Diagnosis     string           `json:"diagnosis" binding:"required"`
	Prescription  string           `json:"prescription"`
	LabTests      []models.LabTest `json:"labTests"`
	Notes         string           `json:"notes"`
}

func (h *Handler) CreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	appointmentID, err := primitive.ObjectIDFromHex(req.AppointmentID)
	if err != nil {
		response.BadRequest(c, "Invalid appointmentId")
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

	ctx := c.Request.Context()

	apt, err := h.findAppointment(ctx, appointmentID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Appointment not found")
			return
		}
		h.internalError(c, "find appointment", err)
		return
	}
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
	report := models.Report{
		ID:            primitive.NewObjectID(),
		AppointmentID: appointmentID,
		PatientID:     patientID,
		DoctorID:      doctorID,
		Diagnosis:     req.Diagnosis,
		Prescription:  req.Prescription,
		LabTests:      req.LabTests,
		Notes:         req.Notes,
		CreatedBy:     middleware.CallerID(c),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := h.DB.Collection(database.ColReports).InsertOne(ctx, report); err != nil {
		h.internalError(c, "insert report", err)
		return
	}

	detail := models.ReportDetail{
		Report:      report,
		Patient:     patient.Ref(),
		Doctor:      doctor.Ref(),
		Appointment: apt.Ref(),
	}
	response.Created(c, gin.H{"report": detail})
}

func (h *Handler) populateReports(ctx context.Context, reports []models.Report) ([]models.ReportDetail, error) {
	patientIDs := make([]primitive.ObjectID, 0, len(reports))
	doctorIDs := make([]primitive.ObjectID, 0, len(reports))
	for _, r := range reports {
		patientIDs = append(patientIDs, r.PatientID)
		doctorIDs = append(doctorIDs, r.DoctorID)
	}

	patients, err := h.patientRefs(ctx, patientIDs)
	if err != nil {
		return nil, err
	}
	doctors, err := h.doctorRefs(ctx, doctorIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.ReportDetail, 0, len(reports))
	for _, r := range reports {
		details = append(details, models.ReportDetail{
			Report:  r,
			Patient: patients[r.PatientID],
			Doctor:  doctors[r.DoctorID],
		})
	}
	return details, nil
}

func (h *Handler) ListReports(c *gin.Context) {
	ctx := c.Request.Context()
	params := query.Parse(c, "createdAt", true, "createdAt", "diagnosis")

	filter := bson.M{}
	if middleware.CallerRole(c) == models.RoleDoctor {
		own, err := h.doctorForUser(ctx, middleware.CallerID(c))
		if err != nil {
			if err == mongo.ErrNoDocuments {
				response.Paginated(c, gin.H{"reports": []models.ReportDetail{}}, params.Pagination(0))
				return
			}
			h.internalError(c, "resolve doctor", err)
			return
		}
		filter["doctorId"] = own.ID
	}

	if pid := c.Query("patientId"); pid != "" {
		patientID, err := primitive.ObjectIDFromHex(pid)
		if err != nil {
			response.BadRequest(c, "Invalid patientId")
			return
		}
		filter["patientId"] = patientID
	}
	if dateStr := c.Query("date"); dateStr != "" {
		if start, end, ok := query.DayRange(dateStr); ok {
			filter["createdAt"] = bson.M{"$gte": start, "$lt": end}
		}
	}

	col := h.DB.Collection(database.ColReports)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		h.internalError(c, "count reports", err)
		return
	}

	cursor, err := col.Find(ctx, filter, params.FindOptions())
	if err != nil {
		h.internalError(c, "find reports", err)
		return
	}
	defer cursor.Close(ctx)

	reports := make([]models.Report, 0)
	if err := cursor.All(ctx, &reports); err != nil {
		h.internalError(c, "decode reports", err)
		return
	}

	details, err := h.populateReports(ctx, reports)
	if err != nil {
		h.internalError(c, "populate reports", err)
		return
	}

	response.Paginated(c, gin.H{"reports": details}, params.Pagination(total))
}

// getReportChecked loads the report and applies the two-layer access rule:
// the role gate already ran, so only per-record ownership is left.
func (h *Handler) getReportChecked(c *gin.Context) (*models.Report, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	ctx := c.Request.Context()
	var report models.Report
	err := h.DB.Collection(database.ColReports).FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Report not found")
			return nil, false
		}
		h.internalError(c, "find report", err)
		return nil, false
	}

	switch middleware.CallerRole(c) {
	case models.RolePatient:
		own, err := h.patientForUser(ctx, middleware.CallerID(c))
		if err != nil || own.ID != report.PatientID {
			response.Forbidden(c, "You can only view your own reports")
			return nil, false
		}
	case models.RoleDoctor:
		own, err := h.doctorForUser(ctx, middleware.CallerID(c))
		if err != nil || own.ID != report.DoctorID {
			response.Forbidden(c, "You can only view your own reports")
			return nil, false
		}
	}
	return &report, true
}

func (h *Handler) GetReport(c *gin.Context) {
	report, ok := h.getReportChecked(c)
	if !ok {
		return
	}

	details, err := h.populateReports(c.Request.Context(), []models.Report{*report})
	if err != nil {
		h.internalError(c, "populate report", err)
		return
	}
	response.OK(c, gin.H{"report": details[0]})
}

// ReportDocument streams the rendered report document.
func (h *Handler) ReportDocument(c *gin.Context) {
	report, ok := h.getReportChecked(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	details, err := h.populateReports(ctx, []models.Report{*report})
	if err != nil {
		h.internalError(c, "populate report", err)
		return
	}
	if apt, err := h.findAppointment(ctx, report.AppointmentID); err == nil {
		details[0].Appointment = apt.Ref()
	}

	doc, err := h.Docs.RenderReport(&details[0])
	if err != nil {
		h.internalError(c, "render report", err)
		return
	}
	c.Data(http.StatusOK, h.Docs.ContentType(), doc)
}

type updateReportRequest struct {
	Diagnosis    *string           `json:"diagnosis,omitempty"`
	Prescription *string           `json:"prescription,omitempty"`
	LabTests     *[]models.LabTest `json:"labTests,omitempty"`
	Notes        *string           `json:"notes,omitempty"`
}

func (h *Handler) UpdateReport(c *gin.Context) {
	report, ok := h.getReportChecked(c)
	if !ok {
		return
	}

	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	set := bson.M{}
	if req.Diagnosis != nil {
		if *req.Diagnosis == "" {
			response.BadRequest(c, "Diagnosis cannot be empty")
			return
		}
		set["diagnosis"] = *req.Diagnosis
	}
	if req.Prescription != nil {
		set["prescription"] = *req.Prescription
	}
	if req.LabTests != nil {
		set["labTests"] = *req.LabTests
	}
	if req.Notes != nil {
		set["notes"] = *req.Notes
	}
	if len(set) == 0 {
		response.BadRequest(c, "No update fields provided")
		return
	}
	set["updatedAt"] = time.Now()

	ctx := c.Request.Context()
	col := h.DB.Collection(database.ColReports)
	if _, err := col.UpdateOne(ctx, bson.M{"_id": report.ID}, bson.M{"$set": set}); err != nil {
		h.internalError(c, "update report", err)
		return
	}

	var updated models.Report
	if err := col.FindOne(ctx, bson.M{"_id": report.ID}).Decode(&updated); err != nil {
		h.internalError(c, "reload report", err)
		return
	}
	details, err := h.populateReports(ctx, []models.Report{updated})
	if err != nil {
		h.internalError(c, "populate report", err)
		return
	}
	response.OK(c, gin.H{"report": details[0]})
}

func (h *Handler) DeleteReport(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	col := h.DB.Collection(database.ColReports)
	var report models.Report
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Report not found")
			return
		}
		h.internalError(c, "find report", err)
		return
	}

	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		h.internalError(c, "delete report", err)
		return
	}

	response.Message(c, nil, "Report deleted")
}
