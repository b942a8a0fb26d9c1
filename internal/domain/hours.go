package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Hours is an effort quantity in hours. Fractional values are allowed.
type Hours float64

// ParseHours coerces editor input into hours. Empty, non-numeric and
// negative input becomes zero so that an editor stays usable while the
// user is still typing.
func ParseHours(raw string) Hours {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return Hours(f)
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else,
// including null, decodes as zero rather than failing the whole document.
func (h *Hours) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*h = Hours(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*h = ParseHours(s)
		return nil
	}
	*h = 0
	return nil
}

func (h Hours) Float() float64 {
	return float64(h)
}

func (h Hours) String() string {
	return strconv.FormatFloat(float64(h), 'f', -1, 64)
}
