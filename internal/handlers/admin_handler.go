package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mediqore/hospital-api/internal/database"
	"github.com/mediqore/hospital-api/internal/response"
)

type statusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

type billingGroup struct {
	Status string  `bson:"_id" json:"status"`
	Total  float64 `bson:"total" json:"total"`
	Count  int64   `bson:"count" json:"count"`
}

type genderCount struct {
	Gender string `bson:"_id" json:"gender"`
	Count  int64  `bson:"count" json:"count"`
}

// Analytics is the admin dashboard endpoint: independent group-by queries,
// one per metric, optionally served from the redis cache.
func (h *Handler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, ok := h.Cache.Get(ctx); ok {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	totals, err := h.collectionTotals(ctx)
	if err != nil {
		h.internalError(c, "count collections", err)
		return
	}

	byStatus, err := h.appointmentsByStatus(ctx)
	if err != nil {
		h.internalError(c, "group appointments", err)
		return
	}

	billing, revenue, pendingAmount, err := h.billingSummary(ctx)
	if err != nil {
		h.internalError(c, "group bills", err)
		return
	}

	recent, err := h.recentCounts(ctx, 7*24*time.Hour)
	if err != nil {
		h.internalError(c, "count recent", err)
		return
	}

	byGender, err := h.patientsByGender(ctx)
	if err != nil {
		h.internalError(c, "group patients", err)
		return
	}

	body := response.Envelope{
		Success: true,
		Data: gin.H{
			"totals":               totals,
			"appointmentsByStatus": byStatus,
			"billing":              billing,
			"totalRevenue":         revenue,
			"pendingAmount":        pendingAmount,
			"createdLast7Days":     recent,
			"patientsByGender":     byGender,
		},
	}

	h.Cache.Set(ctx, body)
	c.JSON(http.StatusOK, body)
}

func (h *Handler) collectionTotals(ctx context.Context) (gin.H, error) {
	totals := gin.H{}
	for _, col := range []string{
		database.ColPatients, database.ColDoctors, database.ColAppointments,
		database.ColReports, database.ColBills, database.ColUsers,
	} {
		n, err := h.DB.Collection(col).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, err
		}
		totals[col] = n
	}
	return totals, nil
}

func (h *Handler) appointmentsByStatus(ctx context.Context) ([]statusCount, error) {
	pipeline := mongoGroupCount("$status")
	cursor, err := h.DB.Collection(database.ColAppointments).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make([]statusCount, 0)
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// billingSummary groups bill amounts by payment status; revenue and the
// outstanding amount are derived from the paid and pending buckets.
func (h *Handler) billingSummary(ctx context.Context) ([]billingGroup, float64, float64, error) {
	pipeline := bson.A{
		bson.M{"$group": bson.M{
			"_id":   "$paymentStatus",
			"total": bson.M{"$sum": "$totalAmount"},
			"count": bson.M{"$sum": 1},
		}},
	}
	cursor, err := h.DB.Collection(database.ColBills).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, 0, err
	}
	defer cursor.Close(ctx)

	groups := make([]billingGroup, 0)
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, 0, 0, err
	}

	var revenue, pending float64
	for _, g := range groups {
		switch g.Status {
		case "paid":
			revenue = g.Total
		case "pending":
			pending = g.Total
		}
	}
	return groups, revenue, pending, nil
}

func (h *Handler) recentCounts(ctx context.Context, window time.Duration) (gin.H, error) {
	since := time.Now().Add(-window)
	recent := gin.H{}
	for _, col := range []string{
		database.ColPatients, database.ColDoctors, database.ColAppointments,
		database.ColReports, database.ColBills,
	} {
		n, err := h.DB.Collection(col).CountDocuments(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
		if err != nil {
			return nil, err
		}
		recent[col] = n
	}
	return recent, nil
}

func (h *Handler) patientsByGender(ctx context.Context) ([]genderCount, error) {
	pipeline := mongoGroupCount("$gender")
	cursor, err := h.DB.Collection(database.ColPatients).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := make([]genderCount, 0)
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// mongoGroupCount is the single-stage count-per-key pipeline shared by the
// status and gender metrics.
func mongoGroupCount(key string) bson.A {
	return bson.A{
		bson.M{"$group": bson.M{
			"_id":   key,
			"count": bson.M{"$sum": 1},
		}},
	}
}
