package schedule

import (
	"errors"
	"sort"
	"testing"
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils/validators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser   = 1
	testAgenda = 10
	monday     = 0
	tuesday    = 1
	sunday     = 6
)

type fakeWorkplaces struct {
	byID map[int]*entity.Workplace
	err  error
}

func newFakeWorkplaces(wps ...*entity.Workplace) *fakeWorkplaces {
	f := &fakeWorkplaces{byID: make(map[int]*entity.Workplace)}
	for _, wp := range wps {
		f.byID[wp.ID] = wp
	}
	return f
}

func (f *fakeWorkplaces) FindByID(id int) (*entity.Workplace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeWorkplaces) FindByOwnerRelatedTo(ownerID, relatedID int) ([]*entity.Workplace, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Workplace
	for _, wp := range f.byID {
		if wp.UserID == ownerID && wp.RelatedTo != nil && *wp.RelatedTo == relatedID {
			out = append(out, wp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeAppointments struct {
	appts []*entity.Appointment
	err   error
	calls int
}

func (f *fakeAppointments) FindByAgendaAndWeekday(agendaID, weekday int, excludeID *int) ([]*entity.Appointment, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*entity.Appointment
	for _, a := range f.appts {
		if a.AgendaID != agendaID || a.Weekday != weekday {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func workplace(id int, name string, relatedTo *int) *entity.Workplace {
	return &entity.Workplace{
		ID:                 id,
		UserID:             testUser,
		Name:               name,
		GracePeriodMinutes: entity.DefaultGracePeriod,
		RelatedTo:          relatedTo,
	}
}

func appointment(id, workplaceID, weekday int, start, end string, duration float64) *entity.Appointment {
	return &entity.Appointment{
		ID:          id,
		AgendaID:    testAgenda,
		WorkplaceID: workplaceID,
		Weekday:     weekday,
		StartTime:   start,
		EndTime:     end,
		HourType:    entity.HourTypeOrdinary,
		Duration:    duration,
	}
}

func candidate(workplaceID, weekday int, start, end string, duration float64) *Candidate {
	return &Candidate{
		WorkplaceID:   workplaceID,
		Weekday:       weekday,
		StartTime:     start,
		EndTime:       end,
		DurationHours: duration,
	}
}

func ptr(i int) *int { return &i }

func newTestEngine(wps *fakeWorkplaces, appts ...*entity.Appointment) (*Engine, *fakeAppointments) {
	store := &fakeAppointments{appts: appts}
	return NewEngine(wps, store, validators.New()), store
}

func requireViolation(t *testing.T, err error, rule Rule) *Violation {
	t.Helper()
	require.Error(t, err)
	var v *Violation
	require.True(t, errors.As(err, &v), "expected a violation, got %v", err)
	assert.Equal(t, rule, v.Rule)
	assert.Equal(t, 400, v.Code())
	return v
}

func TestValidate_InvalidData(t *testing.T) {
	engine, store := newTestEngine(newFakeWorkplaces(workplace(1, "Escola", nil)))

	tests := []struct {
		name string
		c    *Candidate
	}{
		{"nil candidate", nil},
		{"missing workplace", candidate(0, monday, "09:00", "10:00", 1)},
		{"weekday out of range", candidate(1, 7, "09:00", "10:00", 1)},
		{"negative weekday", candidate(1, -1, "09:00", "10:00", 1)},
		{"malformed start", candidate(1, monday, "9h00", "10:00", 1)},
		{"hour out of range", candidate(1, monday, "09:00", "25:00", 1)},
		{"end before start", candidate(1, monday, "10:00", "09:00", 1)},
		{"empty interval", candidate(1, monday, "10:00", "10:00", 1)},
		{"zero duration", candidate(1, monday, "09:00", "10:00", 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := engine.Validate(testAgenda, tc.c, testUser, nil)
			v := requireViolation(t, err, RuleInvalidData)
			assert.Equal(t, "Dados inválidos", v.Reason)
		})
	}
	assert.Zero(t, store.calls, "no rule should read appointments for malformed input")
}

func TestValidate_UnknownWorkplace(t *testing.T) {
	foreign := workplace(2, "Alheio", nil)
	foreign.UserID = 99
	engine, _ := newTestEngine(newFakeWorkplaces(workplace(1, "Escola", nil), foreign))

	err := engine.Validate(testAgenda, candidate(3, monday, "09:00", "10:00", 1), testUser, nil)
	requireViolation(t, err, RuleUnknownWorkplace)

	err = engine.Validate(testAgenda, candidate(2, monday, "09:00", "10:00", 1), testUser, nil)
	requireViolation(t, err, RuleUnknownWorkplace)
}

func TestValidate_ContinuousLimitWinsOverEveryOtherRule(t *testing.T) {
	engine, _ := newTestEngine(
		newFakeWorkplaces(workplace(1, "Escola", nil)),
		appointment(1, 1, monday, "08:00", "12:00", 4),
	)

	err := engine.Validate(testAgenda, candidate(1, monday, "09:00", "15:05", 6.1), testUser, nil)
	v := requireViolation(t, err, RuleContinuousLimit)
	assert.Contains(t, v.Reason, "6 horas")

	err = engine.Validate(testAgenda, candidate(1, tuesday, "09:00", "15:00", 6), testUser, nil)
	assert.NoError(t, err)
}

func TestValidate_Overlap(t *testing.T) {
	engine, _ := newTestEngine(
		newFakeWorkplaces(workplace(1, "Escola", nil), workplace(2, "Clínica", nil)),
		appointment(1, 2, monday, "09:00", "12:00", 3),
	)

	t.Run("overlap with unrelated workplace", func(t *testing.T) {
		err := engine.Validate(testAgenda, candidate(1, monday, "08:00", "09:30", 1.5), testUser, nil)
		v := requireViolation(t, err, RuleOverlap)
		assert.Contains(t, v.Reason, "09:00 às 12:00")
	})

	t.Run("overlap with same workplace", func(t *testing.T) {
		err := engine.Validate(testAgenda, candidate(2, monday, "11:59", "13:00", 1), testUser, nil)
		requireViolation(t, err, RuleOverlap)
	})

	t.Run("contained interval", func(t *testing.T) {
		err := engine.Validate(testAgenda, candidate(2, monday, "10:00", "11:00", 1), testUser, nil)
		requireViolation(t, err, RuleOverlap)
	})

	t.Run("edited appointment does not collide with itself", func(t *testing.T) {
		err := engine.Validate(testAgenda, candidate(2, monday, "09:30", "12:30", 3), testUser, ptr(1))
		assert.NoError(t, err)
	})

	t.Run("other weekday is free", func(t *testing.T) {
		err := engine.Validate(testAgenda, candidate(1, 3, "09:00", "12:00", 3), testUser, nil)
		assert.NoError(t, err)
	})
}

func TestValidate_GracePeriodScenario(t *testing.T) {
	engine, _ := newTestEngine(
		newFakeWorkplaces(workplace(1, "Escola", nil), workplace(2, "Clínica", nil)),
		appointment(1, 2, monday, "09:00", "12:00", 3),
	)

	err := engine.Validate(testAgenda, candidate(1, monday, "12:30", "15:00", 2.5), testUser, nil)
	v := requireViolation(t, err, RuleGracePeriod)
	assert.Contains(t, v.Reason, "30 minutos")
	assert.Contains(t, v.Reason, "60 minutos")

	err = engine.Validate(testAgenda, candidate(1, monday, "13:00", "15:00", 2), testUser, nil)
	assert.NoError(t, err, "a gap equal to the grace period is accepted")

	err = engine.Validate(testAgenda, candidate(1, monday, "08:00", "08:01", 0.1), testUser, nil)
	v = requireViolation(t, err, RuleGracePeriod)
	assert.Contains(t, v.Reason, "59 minutos")
}

func TestValidate_GracePeriodUsesCandidateWorkplace(t *testing.T) {
	relaxed := workplace(1, "Escola", nil)
	relaxed.GracePeriodMinutes = 15
	engine, _ := newTestEngine(
		newFakeWorkplaces(relaxed, workplace(2, "Clínica", nil)),
		appointment(1, 2, monday, "09:00", "12:00", 3),
	)

	assert.NoError(t, engine.Validate(testAgenda, candidate(1, monday, "12:15", "13:00", 0.75), testUser, nil))
	requireViolation(t, engine.Validate(testAgenda, candidate(1, monday, "12:14", "13:00", 0.75), testUser, nil), RuleGracePeriod)
}

func TestValidate_GracePeriodOnlyChecksImmediateNeighbors(t *testing.T) {
	engine, _ := newTestEngine(
		newFakeWorkplaces(workplace(1, "Escola", nil), workplace(2, "Clínica", nil)),
		appointment(1, 2, monday, "07:00", "08:00", 1),
		appointment(2, 1, monday, "08:00", "10:00", 2),
	)

	// The closest predecessor is the same workplace, so the earlier
	// unrelated appointment does not count.
	err := engine.Validate(testAgenda, candidate(1, monday, "10:00", "11:00", 1), testUser, nil)
	assert.NoError(t, err)
}

func TestValidate_SameWorkplaceIsExemptFromGrace(t *testing.T) {
	engine, _ := newTestEngine(
		newFakeWorkplaces(workplace(1, "Escola", nil)),
		appointment(1, 1, monday, "09:00", "12:00", 3),
	)

	err := engine.Validate(testAgenda, candidate(1, monday, "12:00", "14:00", 2), testUser, nil)
	assert.NoError(t, err)
}

func TestValidate_LinkedWorkplaces(t *testing.T) {
	primary := workplace(1, "Colégio Centro", nil)
	secondary := workplace(2, "Colégio Norte", ptr(1))
	sibling := workplace(3, "Colégio Sul", ptr(1))
	unrelated := workplace(4, "Clínica", nil)
	wps := newFakeWorkplaces(primary, secondary, sibling, unrelated)

	t.Run("daily total at the limit is accepted", func(t *testing.T) {
		engine, _ := newTestEngine(wps, appointment(1, 2, monday, "07:00", "10:00", 3))
		err := engine.Validate(testAgenda, candidate(1, monday, "10:00", "15:00", 5), testUser, nil)
		assert.NoError(t, err)
	})

	t.Run("daily total above the limit is rejected", func(t *testing.T) {
		engine, _ := newTestEngine(wps, appointment(1, 2, monday, "07:00", "10:00", 3))
		err := engine.Validate(testAgenda, candidate(1, monday, "10:00", "15:01", 5.02), testUser, nil)
		v := requireViolation(t, err, RuleDailyLimit)
		assert.Contains(t, v.Reason, "Colégio Centro, Colégio Norte, Colégio Sul")
		assert.Contains(t, v.Reason, "8.0")
	})

	t.Run("siblings share the daily bucket", func(t *testing.T) {
		engine, _ := newTestEngine(wps,
			appointment(1, 2, monday, "07:00", "10:00", 3),
			appointment(2, 1, monday, "10:00", "13:00", 3),
		)
		err := engine.Validate(testAgenda, candidate(3, monday, "13:00", "15:30", 2.5), testUser, nil)
		requireViolation(t, err, RuleDailyLimit)

		err = engine.Validate(testAgenda, candidate(3, monday, "13:00", "15:00", 2), testUser, nil)
		assert.NoError(t, err)
	})

	t.Run("unrelated workplaces do not count toward the group", func(t *testing.T) {
		engine, _ := newTestEngine(wps,
			appointment(1, 4, monday, "06:00", "08:00", 2),
			appointment(2, 2, monday, "09:00", "12:00", 3),
		)
		err := engine.Validate(testAgenda, candidate(1, monday, "12:00", "17:00", 5), testUser, nil)
		assert.NoError(t, err)
	})

	t.Run("many small durations do not trip on float noise", func(t *testing.T) {
		engine, _ := newTestEngine(wps,
			appointment(1, 1, monday, "07:00", "09:42", 2.7),
			appointment(2, 2, monday, "09:42", "12:24", 2.7),
		)
		err := engine.Validate(testAgenda, candidate(3, monday, "12:24", "15:00", 2.6), testUser, nil)
		assert.NoError(t, err)
	})

	t.Run("linked neighbor is exempt from grace", func(t *testing.T) {
		engine, _ := newTestEngine(wps, appointment(1, 3, monday, "12:00", "13:00", 1))
		err := engine.Validate(testAgenda, candidate(2, monday, "10:00", "12:00", 2), testUser, nil)
		assert.NoError(t, err)
	})

	t.Run("unlinked neighbor still needs the gap", func(t *testing.T) {
		engine, _ := newTestEngine(wps, appointment(1, 4, monday, "12:00", "13:00", 1))
		err := engine.Validate(testAgenda, candidate(2, monday, "10:00", "12:00", 2), testUser, nil)
		requireViolation(t, err, RuleGracePeriod)
	})
}

func TestValidate_RestPeriod(t *testing.T) {
	wps := newFakeWorkplaces(workplace(1, "Escola", nil))

	t.Run("previous day wraps from Sunday", func(t *testing.T) {
		engine, _ := newTestEngine(wps, appointment(1, 1, sunday, "18:00", "23:00", 5))

		err := engine.Validate(testAgenda, candidate(1, monday, "09:59", "11:00", 1), testUser, nil)
		v := requireViolation(t, err, RuleRestPeriod)
		assert.Contains(t, v.Reason, "659 minutos")

		err = engine.Validate(testAgenda, candidate(1, monday, "10:00", "11:00", 1), testUser, nil)
		assert.NoError(t, err, "exactly 660 minutes of rest is accepted")
	})

	t.Run("next day wraps to Monday", func(t *testing.T) {
		engine, _ := newTestEngine(wps, appointment(1, 1, monday, "09:00", "12:00", 3))

		err := engine.Validate(testAgenda, candidate(1, sunday, "20:00", "22:01", 2), testUser, nil)
		v := requireViolation(t, err, RuleRestPeriod)
		assert.Contains(t, v.Reason, "dia seguinte")

		err = engine.Validate(testAgenda, candidate(1, sunday, "20:00", "22:00", 2), testUser, nil)
		assert.NoError(t, err)
	})

	t.Run("uses the last appointment of the previous day", func(t *testing.T) {
		engine, _ := newTestEngine(wps,
			appointment(1, 1, monday, "07:00", "08:00", 1),
			appointment(2, 1, monday, "20:00", "22:00", 2),
		)
		err := engine.Validate(testAgenda, candidate(1, tuesday, "08:00", "09:00", 1), testUser, nil)
		requireViolation(t, err, RuleRestPeriod)
	})

	t.Run("moving an appointment ignores its old day", func(t *testing.T) {
		engine, _ := newTestEngine(wps, appointment(1, 1, monday, "20:00", "23:00", 3))
		err := engine.Validate(testAgenda, candidate(1, tuesday, "07:00", "10:00", 3), testUser, ptr(1))
		assert.NoError(t, err)
	})
}

func TestValidate_RulesRunInOrder(t *testing.T) {
	engine, _ := newTestEngine(
		newFakeWorkplaces(workplace(1, "Escola", nil), workplace(2, "Clínica", nil)),
		appointment(1, 2, monday, "09:00", "12:00", 3),
		appointment(2, 1, sunday, "22:00", "23:30", 1.5),
	)

	// Overlaps, breaks the grace period and the rest period at once: the
	// overlap is reported.
	err := engine.Validate(testAgenda, candidate(1, monday, "07:00", "09:30", 2.5), testUser, nil)
	requireViolation(t, err, RuleOverlap)

	// No overlap, but grace and rest both fail: grace comes first.
	err = engine.Validate(testAgenda, candidate(1, monday, "07:00", "08:30", 1.5), testUser, nil)
	requireViolation(t, err, RuleGracePeriod)
}

func TestValidate_StoreFailuresAreNotAcceptances(t *testing.T) {
	boom := errors.New("database is locked")

	t.Run("workplace store", func(t *testing.T) {
		wps := newFakeWorkplaces(workplace(1, "Escola", nil))
		wps.err = boom
		engine, _ := newTestEngine(wps)

		err := engine.Validate(testAgenda, candidate(1, monday, "09:00", "10:00", 1), testUser, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		var v *Violation
		assert.False(t, errors.As(err, &v))
	})

	t.Run("appointment store", func(t *testing.T) {
		engine, store := newTestEngine(newFakeWorkplaces(workplace(1, "Escola", nil)))
		store.err = boom

		err := engine.Validate(testAgenda, candidate(1, monday, "09:00", "10:00", 1), testUser, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("corrupt stored time", func(t *testing.T) {
		engine, _ := newTestEngine(
			newFakeWorkplaces(workplace(1, "Escola", nil)),
			appointment(1, 1, monday, "", "12:00", 3),
		)

		err := engine.Validate(testAgenda, candidate(1, monday, "13:00", "14:00", 1), testUser, nil)
		require.Error(t, err)
		var v *Violation
		assert.False(t, errors.As(err, &v))
	})
}

func TestValidate_SequentialOverlapsAcceptAtMostOne(t *testing.T) {
	wps := newFakeWorkplaces(workplace(1, "Escola", nil), workplace(2, "Clínica", nil))
	engine, store := newTestEngine(wps)

	first := candidate(1, monday, "09:00", "11:00", 2)
	require.NoError(t, engine.Validate(testAgenda, first, testUser, nil))
	store.appts = append(store.appts, appointment(1, 1, monday, "09:00", "11:00", 2))

	second := candidate(2, monday, "10:00", "12:00", 2)
	requireViolation(t, engine.Validate(testAgenda, second, testUser, nil), RuleOverlap)
}

func TestWeekdayRotation(t *testing.T) {
	assert.Equal(t, 6, PreviousWeekday(0))
	assert.Equal(t, 2, PreviousWeekday(3))
	assert.Equal(t, 0, NextWeekday(6))
	assert.Equal(t, 4, NextWeekday(3))
}
