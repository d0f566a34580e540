package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleWeekdays(t *testing.T) {
	tests := []struct {
		stored string
		want   []int
	}{
		{"", []int{}},
		{"0,1,2,3,4,5", []int{0, 1, 2, 3, 4, 5}},
		{" 6 , 0", []int{6, 0}},
		{"1,x,9,-1,3", []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			a := &Agenda{Weekdays: tt.stored}
			assert.Equal(t, tt.want, a.VisibleWeekdays())
		})
	}
}

func TestSetVisibleWeekdaysRoundTrip(t *testing.T) {
	a := &Agenda{}
	a.SetVisibleWeekdays([]int{0, 2, 4})
	assert.Equal(t, "0,2,4", a.Weekdays)
	assert.Equal(t, []int{0, 2, 4}, a.VisibleWeekdays())

	a.SetVisibleWeekdays(nil)
	assert.Empty(t, a.VisibleWeekdays())
}

func TestWorkplaceAndAppointmentHelpers(t *testing.T) {
	primary := 3
	assert.False(t, (&Workplace{}).IsSecondary())
	assert.True(t, (&Workplace{RelatedTo: &primary}).IsSecondary())

	assert.True(t, (&Appointment{HourType: HourTypeClass}).IsClassHour())
	assert.False(t, (&Appointment{HourType: HourTypeOrdinary}).IsClassHour())
}
