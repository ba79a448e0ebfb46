package enums

import (
	"fmt"
	"strings"
)

// CivilStatus captures an employee's civil status.
type CivilStatus string

const (
	CivilStatusSingle    CivilStatus = "single"
	CivilStatusMarried   CivilStatus = "married"
	CivilStatusWidowed   CivilStatus = "widowed"
	CivilStatusSeparated CivilStatus = "separated"
	CivilStatusDivorced  CivilStatus = "divorced"
)

var validCivilStatuses = []CivilStatus{
	CivilStatusSingle,
	CivilStatusMarried,
	CivilStatusWidowed,
	CivilStatusSeparated,
	CivilStatusDivorced,
}

// String implements fmt.Stringer.
func (c CivilStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CivilStatus.
func (c CivilStatus) IsValid() bool {
	for _, candidate := range validCivilStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCivilStatus converts raw input into a CivilStatus. Matching ignores case.
func ParseCivilStatus(value string) (CivilStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCivilStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid civil status %q", value)
}
