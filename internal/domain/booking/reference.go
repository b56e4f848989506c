package booking

import (
	"fmt"
	"time"
)

const ReferencePrefix = "ASU"

// FormatReference builds ASU-YYYYMMDD-NNN where seq is the 1-based
// position of the booking among those made for date.
func FormatReference(date time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", ReferencePrefix, date.Format("20060102"), seq)
}
