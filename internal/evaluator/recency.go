package evaluator

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/anime-shed/photo-compliance-go/pkg/models"
)

// DateLayout is the ISO date format accepted for every date input
const DateLayout = "2006-01-02"

// ParseDate parses an ISO date at UTC midnight. Empty or invalid input returns false.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysBetween returns floor((later - earlier) / 24h)
func DaysBetween(later, earlier time.Time) int {
	return int(math.Floor(later.Sub(earlier).Hours() / 24))
}

// RecencyInput carries the dates used by the recency check. CaptureDate falls back to PhotoDate.
type RecencyInput struct {
	ApplicationStartDate string
	CaptureDate          string
	PhotoDate            string
}

// EvaluateRecency checks that the capture is at most maxDays older than the application start.
// A capture after the start date passes with its own detail.
func EvaluateRecency(in RecencyInput, maxDays int) (models.StatusRecord, *int) {
	start, okStart := ParseDate(in.ApplicationStartDate)
	captureValue := in.CaptureDate
	if strings.TrimSpace(captureValue) == "" {
		captureValue = in.PhotoDate
	}
	capture, okCapture := ParseDate(captureValue)
	if !okStart || !okCapture {
		return models.Warn("Recency could not be calculated."), nil
	}

	daysOld := DaysBetween(start, capture)
	if daysOld <= maxDays {
		if daysOld < 0 {
			return models.Pass(fmt.Sprintf("Within %d days: capture date is after application start date.", maxDays)), &daysOld
		}
		return models.Pass(fmt.Sprintf("Within %d days: photo is %d day(s) older than application start date.", maxDays, daysOld)), &daysOld
	}
	return models.Warn(fmt.Sprintf("Not within %d days: photo is %d day(s) older than application start date.", maxDays, daysOld)), &daysOld
}
