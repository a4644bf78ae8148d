package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LabTest struct {
	Name   string    `bson:"name" json:"name"`
	Result string    `bson:"result" json:"result"`
	Date   time.Time `bson:"date,omitempty" json:"date,omitempty"`
}

type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AppointmentID primitive.ObjectID `bson:"appointmentId" json:"appointmentId"`
	PatientID     primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID      primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Diagnosis     string             `bson:"diagnosis" json:"diagnosis"`
	Prescription  string             `bson:"prescription,omitempty" json:"prescription,omitempty"`
	LabTests      []LabTest          `bson:"labTests,omitempty" json:"labTests,omitempty"`
	Notes         string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy     primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type ReportDetail struct {
	Report
	Patient     *PatientRef     `json:"patient,omitempty"`
	Doctor      *DoctorRef      `json:"doctor,omitempty"`
	Appointment *AppointmentRef `json:"appointment,omitempty"`
}
