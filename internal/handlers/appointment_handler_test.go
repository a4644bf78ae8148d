package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mediqore/hospital-api/internal/models"
)

func createAppointmentBody(patientID, doctorID primitive.ObjectID) string {
	return fmt.Sprintf(`{"patientId":%q,"doctorId":%q,"date":"2025-07-01","time":"10:00"}`,
		patientID.Hex(), doctorID.Hex())
}

// assertNothingPersisted checks that no insert command ever reached the
// store.
func assertNothingPersisted(mt *mtest.T) {
	mt.Helper()
	for _, evt := range mt.GetAllStartedEvents() {
		assert.NotEqual(mt, "insert", evt.CommandName, "no document may be written")
	}
}

func TestCreateAppointmentReferentialChecks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	caller := primitive.NewObjectID()

	mt.Run("missing patient gives 404 naming the type", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "hospital.patients", mtest.FirstBatch),
		)
		h := newTestHandler(mt)

		w := invoke(h.CreateAppointment, "POST", "/api/appointments",
			createAppointmentBody(primitive.NewObjectID(), primitive.NewObjectID()),
			models.RoleReception, caller, nil)

		assert.Equal(mt, http.StatusNotFound, w.Code)
		assert.Contains(mt, w.Body.String(), "Patient not found")
		assertNothingPersisted(mt)
	})

	mt.Run("missing doctor gives 404 naming the type", func(mt *mtest.T) {
		patientID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "hospital.patients", mtest.FirstBatch,
				patientDoc(patientID, primitive.NewObjectID(), "9876543210")),
			mtest.CreateCursorResponse(0, "hospital.doctors", mtest.FirstBatch),
		)
		h := newTestHandler(mt)

		w := invoke(h.CreateAppointment, "POST", "/api/appointments",
			createAppointmentBody(patientID, primitive.NewObjectID()),
			models.RoleReception, caller, nil)

		assert.Equal(mt, http.StatusNotFound, w.Code)
		assert.Contains(mt, w.Body.String(), "Doctor not found")
		assertNothingPersisted(mt)
	})

	mt.Run("store failure on lookup gives 500, not 404", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted at shutdown",
			Name:    "InterruptedAtShutdown",
		}))
		h := newTestHandler(mt)

		w := invoke(h.CreateAppointment, "POST", "/api/appointments",
			createAppointmentBody(primitive.NewObjectID(), primitive.NewObjectID()),
			models.RoleReception, caller, nil)

		assert.Equal(mt, http.StatusInternalServerError, w.Code)
		assert.Contains(mt, w.Body.String(), "Internal server error")
		assert.NotContains(mt, w.Body.String(), "Patient not found")
		assertNothingPersisted(mt)
	})
}

func TestGetAppointmentStoreFailure(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("lookup error is not absence", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Message: "interrupted at shutdown",
			Name:    "InterruptedAtShutdown",
		}))
		h := newTestHandler(mt)

		id := primitive.NewObjectID()
		w := invoke(h.GetAppointment, "GET", "/api/appointments/"+id.Hex(), "",
			models.RoleAdmin, primitive.NewObjectID(),
			gin.Params{{Key: "id", Value: id.Hex()}})

		assert.Equal(mt, http.StatusInternalServerError, w.Code)
		assert.NotContains(mt, w.Body.String(), "not found")
	})
}

func TestGetAppointmentPatientOwnership(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	aptID := primitive.NewObjectID()
	callerID := primitive.NewObjectID()

	aptDoc := func(patientID primitive.ObjectID) bson.D {
		return bson.D{
			{Key: "_id", Value: aptID},
			{Key: "patientId", Value: patientID},
			{Key: "doctorId", Value: primitive.NewObjectID()},
			{Key: "time", Value: "10:00"},
			{Key: "status", Value: models.AppointmentPending},
		}
	}

	mt.Run("linked patient differs gives 403", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "hospital.appointments", mtest.FirstBatch,
				aptDoc(primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, "hospital.patients", mtest.FirstBatch,
				patientDoc(primitive.NewObjectID(), callerID, "9876543210")),
		)
		h := newTestHandler(mt)

		w := invoke(h.GetAppointment, "GET", "/api/appointments/"+aptID.Hex(), "",
			models.RolePatient, callerID, gin.Params{{Key: "id", Value: aptID.Hex()}})

		assert.Equal(mt, http.StatusForbidden, w.Code)
		assert.Contains(mt, w.Body.String(), `"success":false`)
	})

	mt.Run("unlinked patient account gives 403", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "hospital.appointments", mtest.FirstBatch,
				aptDoc(primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, "hospital.patients", mtest.FirstBatch),
		)
		h := newTestHandler(mt)

		w := invoke(h.GetAppointment, "GET", "/api/appointments/"+aptID.Hex(), "",
			models.RolePatient, callerID, gin.Params{{Key: "id", Value: aptID.Hex()}})

		assert.Equal(mt, http.StatusForbidden, w.Code)
	})

	mt.Run("linked patient matches gives 200", func(mt *mtest.T) {
		ownID := primitive.NewObjectID()
		doctorID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "hospital.appointments", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: aptID},
				{Key: "patientId", Value: ownID},
				{Key: "doctorId", Value: doctorID},
				{Key: "time", Value: "10:00"},
				{Key: "status", Value: models.AppointmentApproved},
			}),
			mtest.CreateCursorResponse(0, "hospital.patients", mtest.FirstBatch,
				patientDoc(ownID, callerID, "9876543210")),
			mtest.CreateCursorResponse(0, "hospital.patients", mtest.FirstBatch,
				patientDoc(ownID, callerID, "9876543210")),
			mtest.CreateCursorResponse(0, "hospital.doctors", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: doctorID},
				{Key: "name", Value: "Dr. Mehta"},
				{Key: "specialization", Value: "General Medicine"},
			}),
		)
		h := newTestHandler(mt)

		w := invoke(h.GetAppointment, "GET", "/api/appointments/"+aptID.Hex(), "",
			models.RolePatient, callerID, gin.Params{{Key: "id", Value: aptID.Hex()}})

		assert.Equal(mt, http.StatusOK, w.Code)
		assert.Contains(mt, w.Body.String(), aptID.Hex())
		assert.Contains(mt, w.Body.String(), `"success":true`)
	})
}
