package services

import (
	"bytes"
	"fmt"

	"github.com/mediqore/hospital-api/internal/models"
)

// DocumentRenderer produces printable documents for reports and bills. The
// rendering backend is a plain-text placeholder; callers only depend on the
// returned bytes and content type.
type DocumentRenderer struct{}

func NewDocumentRenderer() *DocumentRenderer {
	return &DocumentRenderer{}
}

func (r *DocumentRenderer) ContentType() string { return "application/pdf" }

// RenderReport lays out a medical report document.
func (r *DocumentRenderer) RenderReport(rep *models.ReportDetail) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "MEDICAL REPORT %s\n", rep.ID.Hex())
	if rep.Patient != nil {
		fmt.Fprintf(&buf, "Patient: %s (%d, %s)\n", rep.Patient.Name, rep.Patient.Age, rep.Patient.Gender)
	}
	if rep.Doctor != nil {
		fmt.Fprintf(&buf, "Doctor: %s, %s\n", rep.Doctor.Name, rep.Doctor.Specialization)
	}
	fmt.Fprintf(&buf, "Diagnosis: %s\n", rep.Diagnosis)
	if rep.Prescription != "" {
		fmt.Fprintf(&buf, "Prescription: %s\n", rep.Prescription)
	}
	for _, test := range rep.LabTests {
		fmt.Fprintf(&buf, "Lab: %s = %s\n", test.Name, test.Result)
	}
	if rep.Notes != "" {
		fmt.Fprintf(&buf, "Notes: %s\n", rep.Notes)
	}
	return buf.Bytes(), nil
}

// RenderBill lays out an itemized bill document.
func (r *DocumentRenderer) RenderBill(b *models.BillDetail) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "BILL %s\n", b.ID.Hex())
	if b.Patient != nil {
		fmt.Fprintf(&buf, "Patient: %s (%s)\n", b.Patient.Name, b.Patient.Phone)
	}
	for _, svc := range b.Services {
		fmt.Fprintf(&buf, "%-30s %10.2f\n", svc.Name, svc.Cost)
	}
	fmt.Fprintf(&buf, "%-30s %10.2f\n", "TOTAL", b.TotalAmount)
	fmt.Fprintf(&buf, "Status: %s", b.PaymentStatus)
	if b.PaidAt != nil {
		fmt.Fprintf(&buf, " (paid %s)", b.PaidAt.Format("2006-01-02 15:04"))
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
