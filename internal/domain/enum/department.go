package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Department represents the store section a medicine belongs to
type Department int

const (
	DepartmentPharmacy Department = 0
	DepartmentSurgical Department = 1
	DepartmentFMCG     Department = 2
)

func (d Department) String() string {
	names := [...]string{"Pharmacy", "Surgical", "FMCG"}
	if int(d) < 0 || int(d) >= len(names) {
		return "Pharmacy"
	}
	return names[d]
}

func (d Department) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Department) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = Department(i)
		return nil
	}
	switch str {
	case "Pharmacy":
		*d = DepartmentPharmacy
	case "Surgical":
		*d = DepartmentSurgical
	case "FMCG":
		*d = DepartmentFMCG
	}
	return nil
}

// ParseDepartment maps a display name to its Department value
func ParseDepartment(s string) (Department, bool) {
	switch s {
	case "Pharmacy":
		return DepartmentPharmacy, true
	case "Surgical":
		return DepartmentSurgical, true
	case "FMCG":
		return DepartmentFMCG, true
	}
	return DepartmentPharmacy, false
}

func (d Department) Value() (driver.Value, error) {
	return int64(d), nil
}

func (d *Department) Scan(value interface{}) error {
	if value == nil {
		*d = DepartmentPharmacy
		return nil
	}
	switch v := value.(type) {
	case int64:
		*d = Department(v)
	case int:
		*d = Department(v)
	}
	return nil
}
