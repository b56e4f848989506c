package validators

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register adds the booking tags to gin's validator:
//
//	hhmm    24h clock time, "09:30"
//	isodate calendar date, "2026-10-20"
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", layout("15:04")); err != nil {
		return err
	}
	return v.RegisterValidation("isodate", layout("2006-01-02"))
}

func layout(l string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(l) {
			return false
		}
		_, err := time.Parse(l, s)
		return err == nil
	}
}
