package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

func ValidGender(g string) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type Patient struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Age       int                `bson:"age" json:"age"`
	Gender    string             `bson:"gender" json:"gender"`
	Phone     string             `bson:"phone" json:"phone"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	UserID    primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedBy primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PatientRef is the field subset exposed when another document's patient
// reference is populated.
type PatientRef struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Age    int                `bson:"age" json:"age"`
	Gender string             `bson:"gender" json:"gender"`
	Phone  string             `bson:"phone" json:"phone"`
}

func (p *Patient) Ref() *PatientRef {
	return &PatientRef{ID: p.ID, Name: p.Name, Age: p.Age, Gender: p.Gender, Phone: p.Phone}
}
