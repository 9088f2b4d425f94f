package sql

import (
	"fmt"
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

// RawCheck controls how the formatter treats %s arguments that look like
// SQL injection payloads.
type RawCheck int

const (
	// RawCheckOff passes %s arguments through untouched.
	RawCheckOff RawCheck = iota
	// RawCheckWarn logs a warning and still substitutes the argument.
	RawCheckWarn
	// RawCheckReject fails the format with apperrors.ErrSuspectedInjection.
	RawCheckReject
)

func (c RawCheck) String() string {
	switch c {
	case RawCheckOff:
		return "off"
	case RawCheckWarn:
		return "warn"
	case RawCheckReject:
		return "reject"
	default:
		return fmt.Sprintf("RawCheck(%d)", int(c))
	}
}

// ParseRawCheck parses "off", "warn" or "reject" (case-insensitive).
func ParseRawCheck(s string) (RawCheck, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return RawCheckOff, nil
	case "warn":
		return RawCheckWarn, nil
	case "reject":
		return RawCheckReject, nil
	default:
		return RawCheckOff, fmt.Errorf("unknown raw check mode %q (want off, warn or reject)", s)
	}
}

// InjectionCheckResult contains the result of an injection check on a raw fragment.
type InjectionCheckResult struct {
	IsSQLi      bool   // True if SQL injection pattern detected
	Fingerprint string // libinjection fingerprint of the detected pattern
	Placeholder int    // 1-based index of the %s placeholder, 0 when checked directly
	Value       string // The fragment that was checked
}

// CheckRawFragment uses libinjection to detect SQL injection patterns in a
// fragment destined for a %s placeholder.
//
// Returns nil if no injection is detected.
//
// Example:
//
//	result := CheckRawFragment("laptop computers")
//	// result == nil
//
//	result := CheckRawFragment("'; DROP TABLE users--")
//	// result.IsSQLi == true
func CheckRawFragment(value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		IsSQLi:      true,
		Fingerprint: string(fingerprint),
		Value:       value,
	}
}
