package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mediqore/hospital-api/internal/database"
	"github.com/mediqore/hospital-api/internal/middleware"
	"github.com/mediqore/hospital-api/internal/models"
	"github.com/mediqore/hospital-api/internal/query"
	"github.com/mediqore/hospital-api/internal/response"
)

type createBillRequest struct {
	PatientID     string               `json:"patientId" binding:"required"`
	AppointmentID string               `json:"appointmentId"`
	Services      []models.BillService `json:"services" binding:"required,min=1"`
	TotalAmount   *float64             `json:"totalAmount,omitempty"`
	PaymentStatus string               `json:"paymentStatus"`
	PaymentMethod string               `json:"paymentMethod"`
}

func (h *Handler) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	var sum float64
	for _, svc := range req.Services {
		if svc.Cost < 0 {
			response.BadRequest(c, "Service cost cannot be negative")
			return
		}
		sum += svc.Cost
	}
	total := sum
	if req.TotalAmount != nil {
		if *req.TotalAmount < 0 {
			response.BadRequest(c, "Total amount cannot be negative")
			return
		}
		total = *req.TotalAmount
	}

	status := req.PaymentStatus
	if status == "" {
		status = models.PaymentPending
	}
	if !models.ValidPaymentStatus(status) {
		response.BadRequest(c, "Payment status must be pending, paid or failed")
		return
	}
	if req.PaymentMethod != "" && !models.ValidPaymentMethod(req.PaymentMethod) {
		response.BadRequest(c, "Payment method must be cash, card, upi or online")
		return
	}

	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		response.BadRequest(c, "Invalid patientId")
		return
	}

	ctx := c.Request.Context()
	patient, err := h.findPatient(ctx, patientID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Patient not found")
			return
		}
		h.internalError(c, "find patient", err)
		return
	}

	now := time.Now()
	bill := models.Bill{
		ID:            primitive.NewObjectID(),
		PatientID:     patientID,
		Services:      req.Services,
		TotalAmount:   total,
		PaymentStatus: status,
		PaymentMethod: req.PaymentMethod,
		CreatedBy:     middleware.CallerID(c),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == models.PaymentPaid {
		bill.PaidAt = &now
		bill.PaymentRef = uuid.NewString()
	}

	var aptRef *models.AppointmentRef
	if req.AppointmentID != "" {
		appointmentID, err := primitive.ObjectIDFromHex(req.AppointmentID)
		if err != nil {
			response.BadRequest(c, "Invalid appointmentId")
			return
		}
		apt, err := h.findAppointment(ctx, appointmentID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				response.NotFound(c, "Appointment not found")
				return
			}
			h.internalError(c, "find appointment", err)
			return
		}
		bill.AppointmentID = appointmentID
		aptRef = apt.Ref()
	}

	if _, err := h.DB.Collection(database.ColBills).InsertOne(ctx, bill); err != nil {
		h.internalError(c, "insert bill", err)
		return
	}

	detail := models.BillDetail{Bill: bill, Patient: patient.Ref(), Appointment: aptRef}
	response.Created(c, gin.H{"bill": detail})
}

func (h *Handler) populateBills(ctx context.Context, bills []models.Bill) ([]models.BillDetail, error) {
	patientIDs := make([]primitive.ObjectID, 0, len(bills))
	for _, b := range bills {
		patientIDs = append(patientIDs, b.PatientID)
	}
	patients, err := h.patientRefs(ctx, patientIDs)
	if err != nil {
		return nil, err
	}

	details := make([]models.BillDetail, 0, len(bills))
	for _, b := range bills {
		details = append(details, models.BillDetail{Bill: b, Patient: patients[b.PatientID]})
	}
	return details, nil
}

func (h *Handler) ListBills(c *gin.Context) {
	ctx := c.Request.Context()
	params := query.Parse(c, "createdAt", true, "createdAt", "totalAmount", "paymentStatus")

	filter := bson.M{}
	if status := c.Query("paymentStatus"); status != "" {
		filter["paymentStatus"] = status
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

	col := h.DB.Collection(database.ColBills)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		h.internalError(c, "count bills", err)
		return
	}

	cursor, err := col.Find(ctx, filter, params.FindOptions())
	if err != nil {
		h.internalError(c, "find bills", err)
		return
	}
	defer cursor.Close(ctx)

	bills := make([]models.Bill, 0)
	if err := cursor.All(ctx, &bills); err != nil {
		h.internalError(c, "decode bills", err)
		return
	}

	details, err := h.populateBills(ctx, bills)
	if err != nil {
		h.internalError(c, "populate bills", err)
		return
	}

	response.Paginated(c, gin.H{"bills": details}, params.Pagination(total))
}

func (h *Handler) getBillChecked(c *gin.Context) (*models.Bill, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	ctx := c.Request.Context()
	var bill models.Bill
	err := h.DB.Collection(database.ColBills).FindOne(ctx, bson.M{"_id": id}).Decode(&bill)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Bill not found")
			return nil, false
		}
		h.internalError(c, "find bill", err)
		return nil, false
	}

	if middleware.CallerRole(c) == models.RolePatient {
		own, err := h.patientForUser(ctx, middleware.CallerID(c))
		if err != nil || own.ID != bill.PatientID {
			response.Forbidden(c, "You can only view your own bills")
			return nil, false
		}
	}
	return &bill, true
}

func (h *Handler) GetBill(c *gin.Context) {
	bill, ok := h.getBillChecked(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	details, err := h.populateBills(ctx, []models.Bill{*bill})
	if err != nil {
		h.internalError(c, "populate bill", err)
		return
	}
	if !bill.AppointmentID.IsZero() {
		if apt, err := h.findAppointment(ctx, bill.AppointmentID); err == nil {
			details[0].Appointment = apt.Ref()
		}
	}
	response.OK(c, gin.H{"bill": details[0]})
}

// BillDocument streams the rendered bill document.
func (h *Handler) BillDocument(c *gin.Context) {
	bill, ok := h.getBillChecked(c)
	if !ok {
		return
	}

	details, err := h.populateBills(c.Request.Context(), []models.Bill{*bill})
	if err != nil {
		h.internalError(c, "populate bill", err)
		return
	}
	doc, err := h.Docs.RenderBill(&details[0])
	if err != nil {
		h.internalError(c, "render bill", err)
		return
	}
	c.Data(http.StatusOK, h.Docs.ContentType(), doc)
}

type updateBillRequest struct {
	Services      *[]models.BillService `json:"services,omitempty"`
	TotalAmount   *float64              `json:"totalAmount,omitempty"`
	PaymentStatus *string               `json:"paymentStatus,omitempty"`
	PaymentMethod *string               `json:"paymentMethod,omitempty"`
	PaymentRef    *string               `json:"paymentRef,omitempty"`
}

// paymentTransition returns the fields a payment-status change sets. paidAt
// is stamped only when the status moves into paid from something else;
// paid→paid keeps the original stamp, and leaving paid does not clear it.
func paymentTransition(current *models.Bill, next string, now time.Time) bson.M {
	set := bson.M{"paymentStatus": next}
	if next == models.PaymentPaid && current.PaymentStatus != models.PaymentPaid {
		set["paidAt"] = now
		if current.PaymentRef == "" {
			set["paymentRef"] = uuid.NewString()
		}
	}
	return set
}

func (h *Handler) UpdateBill(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req updateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	col := h.DB.Collection(database.ColBills)
	var bill models.Bill
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&bill); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Bill not found")
			return
		}
		h.internalError(c, "find bill", err)
		return
	}

	now := time.Now()
	set := bson.M{}
	if req.Services != nil {
		var sum float64
		for _, svc := range *req.Services {
			if svc.Cost < 0 {
				response.BadRequest(c, "Service cost cannot be negative")
				return
			}
			sum += svc.Cost
		}
		set["services"] = *req.Services
		if req.TotalAmount == nil {
			set["totalAmount"] = sum
		}
	}
	if req.TotalAmount != nil {
		if *req.TotalAmount < 0 {
			response.BadRequest(c, "Total amount cannot be negative")
			return
		}
		set["totalAmount"] = *req.TotalAmount
	}
	if req.PaymentMethod != nil {
		if !models.ValidPaymentMethod(*req.PaymentMethod) {
			response.BadRequest(c, "Payment method must be cash, card, upi or online")
			return
		}
		set["paymentMethod"] = *req.PaymentMethod
	}
	if req.PaymentRef != nil {
		set["paymentRef"] = *req.PaymentRef
	}
	if req.PaymentStatus != nil {
		if !models.ValidPaymentStatus(*req.PaymentStatus) {
			response.BadRequest(c, "Payment status must be pending, paid or failed")
			return
		}
		for k, v := range paymentTransition(&bill, *req.PaymentStatus, now) {
			// An explicit paymentRef in the same request wins over the
			// generated one.
			if k == "paymentRef" && req.PaymentRef != nil {
				continue
			}
			set[k] = v
		}
	}
	if len(set) == 0 {
		response.BadRequest(c, "No update fields provided")
		return
	}
	set["updatedAt"] = now

	if _, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}); err != nil {
		h.internalError(c, "update bill", err)
		return
	}

	var updated models.Bill
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&updated); err != nil {
		h.internalError(c, "reload bill", err)
		return
	}
	details, err := h.populateBills(ctx, []models.Bill{updated})
	if err != nil {
		h.internalError(c, "populate bill", err)
		return
	}
	response.OK(c, gin.H{"bill": details[0]})
}

func (h *Handler) DeleteBill(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	col := h.DB.Collection(database.ColBills)
	var bill models.Bill
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&bill); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(c, "Bill not found")
			return
		}
		h.internalError(c, "find bill", err)
		return
	}

	if _, err := col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		h.internalError(c, "delete bill", err)
		return
	}

	response.Message(c, nil, "Bill deleted")
}
