package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReturnReason represents why stock left inventory outside a sale
type ReturnReason int

const (
	ReturnReasonExpired  ReturnReason = 0
	ReturnReasonDamaged  ReturnReason = 1
	ReturnReasonRecall   ReturnReason = 2
	ReturnReasonOther    ReturnReason = 3
)

var returnReasonNames = [...]string{"Expired", "Damaged", "Recall", "Other"}

func (r ReturnReason) String() string {
	if int(r) < 0 || int(r) >= len(returnReasonNames) {
		return "Other"
	}
	return returnReasonNames[r]
}

func (r ReturnReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *ReturnReason) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = ReturnReason(i)
		return nil
	}
	for i, name := range returnReasonNames {
		if name == str {
			*r = ReturnReason(i)
			return nil
		}
	}
	*r = ReturnReasonOther
	return nil
}

// ParseReturnReason maps a display name to its ReturnReason value
func ParseReturnReason(s string) (ReturnReason, bool) {
	for i, name := range returnReasonNames {
		if name == s {
			return ReturnReason(i), true
		}
	}
	return ReturnReasonOther, false
}

func (r ReturnReason) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *ReturnReason) Scan(value interface{}) error {
	if value == nil {
		*r = ReturnReasonOther
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = ReturnReason(v)
	case int:
		*r = ReturnReason(v)
	}
	return nil
}
