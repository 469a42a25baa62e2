package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sharpcutlabs/booking-api/internal/models"
)

func serviceTestSetup(t *testing.T) (*gorm.DB, *gin.Engine, models.Barber) {
	t.Helper()

	db := newTestDB(t)

	user := models.User{Name: "Leo", Email: "leo@example.com", PasswordHash: "x", Role: models.RoleBarber}
	require.NoError(t, db.Create(&user).Error)

	branch := models.Branch{Name: "Downtown", Timezone: "UTC", IsActive: true}
	require.NoError(t, db.Create(&branch).Error)

	barber := models.Barber{UserID: user.ID, BranchID: branch.ID, IsActive: true}
	require.NoError(t, db.Create(&barber).Error)

	h := NewServiceHandler(db, nil)

	r := gin.New()
	g := r.Group("/api/barber", authAs(user.ID))
	g.POST("/services", h.Create)
	g.PATCH("/services/:id", h.Update)

	return db, r, barber
}

func TestCreateServiceValidatesDurationAndPrice(t *testing.T) {
	_, r, _ := serviceTestSetup(t)

	// Below the 15 minute floor.
	w := doJSON(t, r, http.MethodPost, "/api/barber/services", gin.H{
		"name": "Trim", "duration_min": 10, "price": 20.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Price must be positive: it gets snapshotted onto bookings.
	w = doJSON(t, r, http.MethodPost, "/api/barber/services", gin.H{
		"name": "Trim", "duration_min": 30, "price": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/barber/services", gin.H{
		"name": "Trim", "duration_min": 30, "price": -5.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/barber/services", gin.H{
		"name": "Trim", "duration_min": 30, "price": 25.5,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateServiceValidatesDurationAndPrice(t *testing.T) {
	db, r, barber := serviceTestSetup(t)

	svc := models.Service{
		BranchID: barber.BranchID, Name: "Haircut",
		DurationMin: 30, Price: 50, Active: true,
	}
	require.NoError(t, db.Create(&svc).Error)

	path := fmt.Sprintf("/api/barber/services/%d", svc.ID)

	w := doJSON(t, r, http.MethodPatch, path, gin.H{"duration_min": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_duration")

	w = doJSON(t, r, http.MethodPatch, path, gin.H{"price": -5.0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_price")

	w = doJSON(t, r, http.MethodPatch, path, gin.H{"price": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rejected updates must not stick.
	var unchanged models.Service
	require.NoError(t, db.First(&unchanged, svc.ID).Error)
	assert.Equal(t, 30, unchanged.DurationMin)
	assert.Equal(t, 50.0, unchanged.Price)

	w = doJSON(t, r, http.MethodPatch, path, gin.H{"duration_min": 15, "price": 60.0})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Service
	require.NoError(t, db.First(&updated, svc.ID).Error)
	assert.Equal(t, 15, updated.DurationMin)
	assert.Equal(t, 60.0, updated.Price)
}
