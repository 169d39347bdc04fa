package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when an identifier cannot be turned into its canonical form.
var ErrInvalidID = errors.New("invalid id")

// Ids are opaque strings everywhere inside the process. The remote side is
// free to send them as JSON numbers; ParseID is the single place where that
// is converted, so comparison sites never have to care.

// ParseID canonicalises a raw JSON id (string or number) into a string.
func ParseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrInvalidID
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", ErrInvalidID
		}
		return CanonicalID(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", ErrInvalidID
	}
	// 只有 JSON 数字会折叠小数形式 (42.0 -> 42)
	if i, err := n.Int64(); err == nil {
		return FormatID(i), nil
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return FormatID(int64(f)), nil
	}
	return n.String(), nil
}

// CanonicalID trims s and strips leading zeros from all-digit ids
// ("007" -> "7"). Anything else is kept verbatim.
func CanonicalID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidID
	}
	if !isDigits(s) {
		return s, nil
	}
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t, nil
	}
	return "0", nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatID renders a numeric database key as a canonical id.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// SongKey converts a canonical track id to the numeric key of the songs table.
func SongKey(id string) (int64, error) {
	canon, err := CanonicalID(id)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(canon, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidID
	}
	return n, nil
}
