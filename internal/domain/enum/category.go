package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Category represents the drug form of a medicine
type Category int

const (
	CategoryTablet    Category = 0
	CategoryCapsule   Category = 1
	CategorySyrup     Category = 2
	CategoryInjection Category = 3
	CategoryCream     Category = 4
	CategorySurgical  Category = 5
	CategoryCosmetic  Category = 6
	CategoryGeneral   Category = 7
)

var categoryNames = [...]string{
	"Tablet", "Capsule", "Syrup", "Injection", "Cream", "Surgical", "Cosmetic", "General",
}

func (c Category) String() string {
	if int(c) < 0 || int(c) >= len(categoryNames) {
		return "General"
	}
	return categoryNames[c]
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*c = Category(i)
		return nil
	}
	for i, name := range categoryNames {
		if name == str {
			*c = Category(i)
			return nil
		}
	}
	return nil
}

// ParseCategory maps a display name to its Category value
func ParseCategory(s string) (Category, bool) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), true
		}
	}
	return CategoryGeneral, false
}

func (c Category) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Category) Scan(value interface{}) error {
	if value == nil {
		*c = CategoryGeneral
		return nil
	}
	switch v := value.(type) {
	case int64:
		*c = Category(v)
	case int:
		*c = Category(v)
	}
	return nil
}
