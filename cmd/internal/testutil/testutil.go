// Package testutil provides an in-memory database and fixture builders for tests.
package testutil

import (
	"fmt"
	"testing"
	"workagenda/cmd/internal/domain/entity"
	domainsqlite "workagenda/cmd/internal/domain/sqlite"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, domainsqlite.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, sub string) *entity.User {
	t.Helper()

	user := &entity.User{SubUUID: sub, Name: "User " + sub, Email: sub + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// WorkplaceOption tweaks a workplace fixture before it is stored.
type WorkplaceOption func(*entity.Workplace)

func WithGrace(minutes int) WorkplaceOption {
	return func(wp *entity.Workplace) { wp.GracePeriodMinutes = minutes }
}

func WithRate(rate float64) WorkplaceOption {
	return func(wp *entity.Workplace) { wp.HourlyRate = rate }
}

func WithClassHourPercent(percent float64) WorkplaceOption {
	return func(wp *entity.Workplace) { wp.ClassHourPercent = percent }
}

func RelatedTo(id int) WorkplaceOption {
	return func(wp *entity.Workplace) { wp.RelatedTo = &id }
}

func CreateWorkplace(t *testing.T, db *gorm.DB, userID int, name string, opts ...WorkplaceOption) *entity.Workplace {
	t.Helper()

	wp := &entity.Workplace{
		UserID:             userID,
		Name:               name,
		Color:              "#336699",
		HourlyRate:         50,
		GracePeriodMinutes: entity.DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(wp)
	}
	require.NoError(t, db.Create(wp).Error)
	return wp
}

func CreateAgenda(t *testing.T, db *gorm.DB, userID int, name string) *entity.Agenda {
	t.Helper()

	agenda := &entity.Agenda{
		UserID:       userID,
		Name:         name,
		StartsOn:     "2026-02-01",
		EndsOn:       "2026-12-15",
		DefaultStart: "07:00",
		DefaultEnd:   "23:00",
	}
	agenda.SetVisibleWeekdays([]int{0, 1, 2, 3, 4, 5})
	require.NoError(t, db.Create(agenda).Error)
	return agenda
}

// CreateAppointment stores an ordinary-hours appointment without running
// any schedule rule.
func CreateAppointment(t *testing.T, db *gorm.DB, agendaID, workplaceID, weekday int, start, end string, duration float64) *entity.Appointment {
	t.Helper()

	appt := &entity.Appointment{
		AgendaID:    agendaID,
		WorkplaceID: workplaceID,
		Weekday:     weekday,
		StartTime:   start,
		EndTime:     end,
		HourType:    entity.HourTypeOrdinary,
		Duration:    duration,
	}
	require.NoError(t, db.Create(appt).Error)
	return appt
}
