package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SubscriptionStatus is the state of a user's SaaS subscription.
// Transitions other than the cancel flag are driven by the payment provider.
type SubscriptionStatus int

const (
	SubscriptionStatusNone     SubscriptionStatus = 0
	SubscriptionStatusTrial    SubscriptionStatus = 1
	SubscriptionStatusActive   SubscriptionStatus = 2
	SubscriptionStatusPastDue  SubscriptionStatus = 3
	SubscriptionStatusCanceled SubscriptionStatus = 4
)

func (s SubscriptionStatus) String() string {
	return [...]string{"NONE", "TRIAL", "ACTIVE", "PAST_DUE", "CANCELED"}[s]
}

func (s SubscriptionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SubscriptionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SubscriptionStatus(i)
		return nil
	}
	switch str {
	case "NONE":
		*s = SubscriptionStatusNone
	case "TRIAL":
		*s = SubscriptionStatusTrial
	case "ACTIVE":
		*s = SubscriptionStatusActive
	case "PAST_DUE":
		*s = SubscriptionStatusPastDue
	case "CANCELED":
		*s = SubscriptionStatusCanceled
	}
	return nil
}

func (s SubscriptionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SubscriptionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SubscriptionStatusNone
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SubscriptionStatus(v)
	case int:
		*s = SubscriptionStatus(v)
	}
	return nil
}
