package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Date string `validate:"isodate"`
	Time string `validate:"hhmm"`
}

func TestBookingTags(t *testing.T) {
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("RegisterOn: %v", err)
	}

	cases := []struct {
		in sample
		ok bool
	}{
		{sample{"2026-10-20", "09:30"}, true},
		{sample{"2026-10-20", "9:30"}, false},
		{sample{"2026-13-01", "09:30"}, false},
		{sample{"20/10/2026", "09:30"}, false},
		{sample{"2026-10-20", "24:00"}, false},
	}

	for _, tc := range cases {
		err := v.Struct(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("%+v: err = %v, want ok=%v", tc.in, err, tc.ok)
		}
	}
}
