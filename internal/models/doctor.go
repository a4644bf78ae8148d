package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var weekDays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

func ValidWeekDay(d string) bool { return weekDays[d] }

// AvailabilitySlot is one weekly recurring window a doctor accepts
// appointments in.
type AvailabilitySlot struct {
	Day   string `bson:"day" json:"day"`
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

type Doctor struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Specialization string             `bson:"specialization" json:"specialization"`
	Phone          string             `bson:"phone" json:"phone"`
	Email          string             `bson:"email" json:"email"`
	Availability   []AvailabilitySlot `bson:"availability,omitempty" json:"availability,omitempty"`
	UserID         primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedBy      primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type DoctorRef struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Specialization string             `bson:"specialization" json:"specialization"`
}

func (d *Doctor) Ref() *DoctorRef {
	return &DoctorRef{ID: d.ID, Name: d.Name, Specialization: d.Specialization}
}
