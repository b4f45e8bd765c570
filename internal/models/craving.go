package models

import "time"

// CravingLog is a single urge-to-smoke event. Logs are immutable once created.
type CravingLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Intensity int       `json:"intensity"`
	// Trigger is nil when no trigger was given; an empty string is kept as-is.
	Trigger *string `json:"trigger,omitempty"`
}

// HasTrigger reports whether the log carries a non-empty trigger.
func (c CravingLog) HasTrigger() bool {
	return c.Trigger != nil && *c.Trigger != ""
}

// TriggerOrEmpty returns the trigger text, or "" when absent.
func (c CravingLog) TriggerOrEmpty() string {
	if c.Trigger == nil {
		return ""
	}
	return *c.Trigger
}

// QuickTriggers are the suggested trigger tags offered when logging a craving.
var QuickTriggers = []string{"Stress", "Coffee", "Alcohol", "Boredom", "After meal", "Social"}

var intensityLabels = []string{"Mild", "Low", "Moderate", "Strong", "Severe"}

// IntensityLabel returns the display label for an intensity in 1..5.
// Out-of-range values have no label.
func IntensityLabel(intensity int) string {
	if intensity < 1 || intensity > len(intensityLabels) {
		return ""
	}
	return intensityLabels[intensity-1]
}
