package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AppointmentPending   = "pending"
	AppointmentApproved  = "approved"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"
)

func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentPending, AppointmentApproved, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

type Appointment struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID        primitive.ObjectID `bson:"patientId" json:"patientId"`
	DoctorID         primitive.ObjectID `bson:"doctorId" json:"doctorId"`
	Date             time.Time          `bson:"date" json:"date"`
	Time             string             `bson:"time" json:"time"`
	Status           string             `bson:"status" json:"status"`
	Reason           string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Notes            string             `bson:"notes,omitempty" json:"notes,omitempty"`
	NotificationSent bool               `bson:"notificationSent" json:"notificationSent"`
	CreatedBy        primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type AppointmentRef struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Date   time.Time          `bson:"date" json:"date"`
	Time   string             `bson:"time" json:"time"`
	Status string             `bson:"status" json:"status"`
}

func (a *Appointment) Ref() *AppointmentRef {
	return &AppointmentRef{ID: a.ID, Date: a.Date, Time: a.Time, Status: a.Status}
}

// AppointmentDetail is an appointment with its references populated for
// responses.
type AppointmentDetail struct {
	Appointment
	Patient *PatientRef `json:"patient,omitempty"`
	Doctor  *DoctorRef  `json:"doctor,omitempty"`
}
