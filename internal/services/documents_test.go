package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mediqore/hospital-api/internal/models"
)

func TestRenderReport(t *testing.T) {
	r := NewDocumentRenderer()
	detail := &models.ReportDetail{
		Report: models.Report{
			ID:        primitive.NewObjectID(),
			Diagnosis: "Seasonal influenza",
			LabTests:  []models.LabTest{{Name: "CBC", Result: "normal"}},
		},
		Patient: &models.PatientRef{Name: "Asha Rao", Age: 34, Gender: models.GenderFemale},
		Doctor:  &models.DoctorRef{Name: "Dr. Mehta", Specialization: "General Medicine"},
	}

	doc, err := r.RenderReport(detail)
	require.NoError(t, err)

	text := string(doc)
	assert.Contains(t, text, "Seasonal influenza")
	assert.Contains(t, text, "Asha Rao")
	assert.Contains(t, text, "CBC")
}

func TestRenderBill(t *testing.T) {
	r := NewDocumentRenderer()
	paidAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	detail := &models.BillDetail{
		Bill: models.Bill{
			ID:            primitive.NewObjectID(),
			Services:      []models.BillService{{Name: "Consultation", Cost: 500}},
			TotalAmount:   500,
			PaymentStatus: models.PaymentPaid,
			PaidAt:        &paidAt,
		},
		Patient: &models.PatientRef{Name: "Asha Rao", Phone: "9876543210"},
	}

	doc, err := r.RenderBill(detail)
	require.NoError(t, err)

	text := string(doc)
	assert.Contains(t, text, "Consultation")
	assert.Contains(t, text, "500.00")
	assert.Contains(t, text, "paid")
}
