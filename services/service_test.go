package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-pms-backend/config"
	"hotel-pms-backend/models"
)

// newTestDB opens an isolated in-memory database per test. The shared
// cache keeps all pooled connections on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

func seedStaff(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@hotel.local",
		PasswordHash: "not-a-real-hash",
		FullName:     "Test " + username,
		Role:         models.RoleStaff,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedRoom(t *testing.T, db *gorm.DB, number string, capacity int, price float64) models.Room {
	t.Helper()

	room := models.Room{
		RoomNumber:    number,
		RoomType:      models.RoomStandard,
		Status:        models.RoomAvailable,
		Floor:         1,
		Capacity:      capacity,
		PricePerNight: price,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func seedGuest(t *testing.T, db *gorm.DB, identity string) models.Guest {
	t.Helper()

	guest := models.Guest{
		FirstName:      "Somchai",
		LastName:       "Jaidee",
		Email:          identity + "@example.com",
		Phone:          "0812345678",
		IdentityNumber: identity,
		Gender:         models.GenderMale,
		Nationality:    "Thai",
	}
	require.NoError(t, db.Create(&guest).Error)
	return guest
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func roomStatus(t *testing.T, db *gorm.DB, id uint) models.RoomStatus {
	t.Helper()

	var room models.Room
	require.NoError(t, db.First(&room, id).Error)
	return room.Status
}
