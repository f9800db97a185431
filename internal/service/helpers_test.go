package service

import (
	"concert_connect_backend/internal/config"
	"concert_connect_backend/internal/model"
	"concert_connect_backend/internal/repository"
	"concert_connect_backend/pkg/database"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: 24 * time.Hour,
		},
		Stripe: config.StripeConfig{
			WebhookSecret: "whsec_test",
		},
	}
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createEvent(t *testing.T, db *gorm.DB, externalID string, date time.Time) *model.Event {
	t.Helper()

	event := &model.Event{
		TicketmasterID: externalID,
		Title:          "Show " + externalID,
		Artist:         "The Artists",
		Venue:          "Test Arena",
		City:           "Austin",
		State:          "TX",
		Date:           date,
		Genre:          "Rock",
		IsActive:       true,
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func newFriendshipService(db *gorm.DB) *FriendshipService {
	return NewFriendshipService(repository.NewFriendshipRepository(db, nil), repository.NewUserRepository(db))
}
