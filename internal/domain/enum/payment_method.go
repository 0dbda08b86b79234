package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how an invoice was paid
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = 0
	PaymentMethodCard PaymentMethod = 1
	PaymentMethodUPI  PaymentMethod = 2
)

func (p PaymentMethod) String() string {
	names := [...]string{"Cash", "Card", "UPI"}
	if int(p) < 0 || int(p) >= len(names) {
		return "Cash"
	}
	return names[p]
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*p = PaymentMethod(i)
		return nil
	}
	switch str {
	case "Cash":
		*p = PaymentMethodCash
	case "Card":
		*p = PaymentMethodCard
	case "UPI":
		*p = PaymentMethodUPI
	}
	return nil
}

// ParsePaymentMethod maps a display name to its PaymentMethod value
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch s {
	case "Cash":
		return PaymentMethodCash, true
	case "Card":
		return PaymentMethodCard, true
	case "UPI":
		return PaymentMethodUPI, true
	}
	return PaymentMethodCash, false
}

func (p PaymentMethod) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*p = PaymentMethod(v)
	case int:
		*p = PaymentMethod(v)
	}
	return nil
}
