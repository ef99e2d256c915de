package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Frequency is the recurrence interval of a recurring invoice
type Frequency int

const (
	FrequencyWeekly  Frequency = 0
	FrequencyMonthly Frequency = 1
	FrequencyYearly  Frequency = 2
)

func (f Frequency) String() string {
	return [...]string{"WEEKLY", "MONTHLY", "YEARLY"}[f]
}

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	return f >= FrequencyWeekly && f <= FrequencyYearly
}

// ParseFrequency parses a wire name like "MONTHLY".
func ParseFrequency(s string) (Frequency, bool) {
	switch s {
	case "WEEKLY":
		return FrequencyWeekly, true
	case "MONTHLY":
		return FrequencyMonthly, true
	case "YEARLY":
		return FrequencyYearly, true
	}
	return 0, false
}

func (f Frequency) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Frequency) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*f = Frequency(i)
		return nil
	}
	switch str {
	case "WEEKLY":
		*f = FrequencyWeekly
	case "MONTHLY":
		*f = FrequencyMonthly
	case "YEARLY":
		*f = FrequencyYearly
	}
	return nil
}

func (f Frequency) Value() (driver.Value, error) {
	return int64(f), nil
}

func (f *Frequency) Scan(value interface{}) error {
	if value == nil {
		*f = FrequencyMonthly
		return nil
	}
	switch v := value.(type) {
	case int64:
		*f = Frequency(v)
	case int:
		*f = Frequency(v)
	}
	return nil
}
