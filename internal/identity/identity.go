package identity

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Key identifies a user across the two identifier schemes in circulation:
// numeric database ids and federated UUID subjects. A Key is constructed once
// when a session is established and carried as-is afterwards.
type Key struct {
	numeric int64
	opaque  string
}

// NumericKey builds a Key from a database user id.
func NumericKey(id int64) Key {
	return Key{numeric: id}
}

// OpaqueKey builds a Key from a federated subject string.
func OpaqueKey(subject string) Key {
	return Key{opaque: subject}
}

// IsNumeric reports whether the key holds a database user id.
func (k Key) IsNumeric() bool {
	return k.opaque == ""
}

// Numeric returns the database user id, or zero for opaque keys.
func (k Key) Numeric() int64 {
	return k.numeric
}

// Opaque returns the federated subject, or empty for numeric keys.
func (k Key) Opaque() string {
	return k.opaque
}

// IsZero reports whether no identifier was resolved.
func (k Key) IsZero() bool {
	return k.numeric == 0 && k.opaque == ""
}

func (k Key) String() string {
	if k.IsNumeric() {
		return strconv.FormatInt(k.numeric, 10)
	}
	return k.opaque
}

// candidateFields is the probe order for identifier fields. Earlier entries
// win; the order reflects how often each spelling appears in stored sessions.
var candidateFields = []string{
	"user_id",
	"id",
	"userID",
	"userId",
	"uid",
	"sub",
	"user_uuid",
	"uuid",
}

// nestedContainers are probed, in order, when no top-level field matches.
var nestedContainers = []string{"user", "session"}

// Resolve extracts a user Key from an arbitrary session or profile document.
// It probes the candidate fields at the top level first, then descends into
// known container fields, then into the first entry of an identities array.
func Resolve(doc map[string]any) (Key, bool) {
	if doc == nil {
		return Key{}, false
	}

	for _, field := range candidateFields {
		if value, ok := doc[field]; ok {
			if key, ok := Normalize(value); ok {
				return key, true
			}
		}
	}

	for _, container := range nestedContainers {
		if nested, ok := doc[container].(map[string]any); ok {
			if key, ok := Resolve(nested); ok {
				return key, true
			}
		}
	}

	if identities, ok := doc["identities"].([]any); ok && len(identities) > 0 {
		if first, ok := identities[0].(map[string]any); ok {
			if key, ok := Resolve(first); ok {
				return key, true
			}
		}
	}

	return Key{}, false
}

// ResolveJSON decodes raw JSON and resolves a Key from it.
func ResolveJSON(raw []byte) (Key, bool) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Key{}, false
	}
	return Resolve(doc)
}

// Normalize converts a raw identifier value into a Key. Numbers and numeric
// strings become numeric keys; any other non-empty string is treated as a
// federated subject and passes through opaque.
func Normalize(value any) (Key, bool) {
	switch v := value.(type) {
	case float64:
		if v <= 0 {
			return Key{}, false
		}
		return NumericKey(int64(v)), true
	case int64:
		if v <= 0 {
			return Key{}, false
		}
		return NumericKey(v), true
	case int:
		if v <= 0 {
			return Key{}, false
		}
		return NumericKey(int64(v)), true
	case json.Number:
		if n, err := v.Int64(); err == nil && n > 0 {
			return NumericKey(n), true
		}
		return Key{}, false
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return Key{}, false
		}
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			if n <= 0 {
				return Key{}, false
			}
			return NumericKey(n), true
		}
		return OpaqueKey(trimmed), true
	default:
		return Key{}, false
	}
}
