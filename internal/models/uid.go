// File: internal/models/uid.go
// Project: UNIVERSE
// Description: 128-bit probe/system/body identifiers
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// UID is a 128-bit identifier assigned from the main RNG stream, as two
// independently drawn 64-bit halves.
type UID struct {
	Hi uint64 `json:"hi"`
	Lo uint64 `json:"lo"`
}

// ZeroUID is the sentinel UID for "no parent" / "no body attached".
var ZeroUID = UID{}

// IsZero reports whether u is the zero UID.
func (u UID) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// String renders a UID as "<hi>-<lo>" decimal, per the wire protocol.
func (u UID) String() string {
	return strconv.FormatUint(u.Hi, 10) + "-" + strconv.FormatUint(u.Lo, 10)
}

// Hex renders a UID as a 32-hex-character string, the persisted-row format.
func (u UID) Hex() string {
	return fmt.Sprintf("%016x%016x", u.Hi, u.Lo)
}

// ParseUID parses the "<hi>-<lo>" wire format produced by String.
func ParseUID(s string) (UID, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return UID{}, fmt.Errorf("invalid uid %q", s)
	}
	hi, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid %q: %w", s, err)
	}
	lo, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid %q: %w", s, err)
	}
	return UID{Hi: hi, Lo: lo}, nil
}

// ParseUIDHex parses the 32-hex-character persisted-row format.
func ParseUIDHex(s string) (UID, error) {
	if len(s) != 32 {
		return UID{}, fmt.Errorf("invalid uid hex %q: want 32 chars", s)
	}
	hi, err := strconv.ParseUint(s[:16], 16, 64)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid hex %q: %w", s, err)
	}
	lo, err := strconv.ParseUint(s[16:], 16, 64)
	if err != nil {
		return UID{}, fmt.Errorf("invalid uid hex %q: %w", s, err)
	}
	return UID{Hi: hi, Lo: lo}, nil
}

// MarshalJSON renders the UID as the "<hi>-<lo>" decimal string.
func (u UID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

// UnmarshalJSON parses the "<hi>-<lo>" decimal string.
func (u *UID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*u = ZeroUID
		return nil
	}
	parsed, err := ParseUID(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
