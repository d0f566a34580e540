package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"testing"
	"workagenda/cmd/internal/domain/sqlite"
	"workagenda/cmd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seeded struct {
	dbPath    string
	agendaID  int
	school    int
	clinic    int
	appointID int
}

func seed(t *testing.T) seeded {
	t.Helper()

	path := filepath.Join(t.TempDir(), "agenda.db")
	db, err := sqlite.Open(path)
	require.NoError(t, err)

	user := testutil.CreateUser(t, db, "owner")
	school := testutil.CreateWorkplace(t, db, user.ID, "School", testutil.WithRate(40))
	clinic := testutil.CreateWorkplace(t, db, user.ID, "Clinic", testutil.WithRate(60))
	agenda := testutil.CreateAgenda(t, db, user.ID, "2026")
	appt := testutil.CreateAppointment(t, db, agenda.ID, school.ID, 0, "08:00", "10:00", 2)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	return seeded{dbPath: path, agendaID: agenda.ID, school: school.ID, clinic: clinic.ID, appointID: appt.ID}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func checkArgs(s seeded, workplace int, start, end, duration string) []string {
	return []string{
		"--db", s.dbPath, "check",
		"--user-sub", "owner",
		"--agenda", strconv.Itoa(s.agendaID),
		"--workplace", strconv.Itoa(workplace),
		"--weekday", "0",
		"--start", start,
		"--end", end,
		"--duration", duration,
	}
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")

	out, err := run(t, "--db", path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")
	assert.FileExists(t, path)
}

func TestCheck(t *testing.T) {
	s := seed(t)

	t.Run("accepted", func(t *testing.T) {
		out, err := run(t, checkArgs(s, s.school, "10:00", "12:00", "2")...)
		require.NoError(t, err)
		assert.Contains(t, out, "accepted")
	})

	t.Run("rejected by grace period", func(t *testing.T) {
		out, err := run(t, checkArgs(s, s.clinic, "10:30", "11:30", "1")...)
		assert.ErrorIs(t, err, errRejected)
		assert.Contains(t, out, "[grace_period]")
	})

	t.Run("exclude the edited appointment", func(t *testing.T) {
		args := append(checkArgs(s, s.school, "09:00", "11:00", "2"), "--exclude", strconv.Itoa(s.appointID))
		out, err := run(t, args...)
		require.NoError(t, err)
		assert.Contains(t, out, "accepted")
	})

	t.Run("unknown user", func(t *testing.T) {
		args := checkArgs(s, s.school, "10:00", "12:00", "2")
		args[4] = "stranger"
		_, err := run(t, args...)
		require.Error(t, err)
		assert.NotErrorIs(t, err, errRejected)
	})

	t.Run("missing flags", func(t *testing.T) {
		_, err := run(t, "--db", s.dbPath, "check", "--user-sub", "owner")
		assert.Error(t, err)
	})
}

func TestReport(t *testing.T) {
	s := seed(t)

	out, err := run(t, "--db", s.dbPath, "report", "--user-sub", "owner", "--agenda", strconv.Itoa(s.agendaID))
	require.NoError(t, err)
	assert.Contains(t, out, "weekly report")
	assert.Contains(t, out, "School")
	assert.Contains(t, out, "80.00")

	out, err = run(t, "--db", s.dbPath, "report", "--user-sub", "owner", "--agenda", strconv.Itoa(s.agendaID), "--monthly")
	require.NoError(t, err)
	assert.Contains(t, out, "monthly report")
	assert.Contains(t, out, fmt.Sprintf("%.2f", 320.0))
}
