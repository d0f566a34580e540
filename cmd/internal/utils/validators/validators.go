package validators

import (
	"reflect"
	"strings"
	"time"
	"workagenda/cmd/internal/domain/entity"
	"workagenda/cmd/internal/utils"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the custom tags registered and field names
// reported by their json tag.
func New() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	Register(validate)
	return validate
}

func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("clocktime", IsClockTime)
	_ = validate.RegisterValidation("hourtype", IsHourType)
	_ = validate.RegisterValidation("isodate", IsISODate)
}

// IsClockTime accepts "H:MM", "HH:MM" and "HH:MM:SS".
func IsClockTime(fl validator.FieldLevel) bool {
	_, err := utils.ParseClock(fl.Field().String())
	return err == nil
}

func IsHourType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case entity.HourTypeOrdinary, entity.HourTypeClass:
		return true
	}
	return false
}

func IsISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}
