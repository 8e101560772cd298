package types

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// LooseString decodes from any JSON value. Models frequently emit phone
// numbers, identifiers and GPAs as numbers, and descriptions as arrays of
// bullet points, even when asked for strings. Arrays are joined with
// newlines; objects keep their compact JSON text.
type LooseString string

// UnmarshalJSON implements json.Unmarshaler
func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = LooseString(str)
	case '[':
		var items []LooseString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			if item != "" {
				lines = append(lines, string(item))
			}
		}
		*s = LooseString(strings.Join(lines, "\n"))
	case '{':
		var compact bytes.Buffer
		if err := json.Compact(&compact, data); err != nil {
			return err
		}
		*s = LooseString(compact.String())
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = LooseString(strconv.FormatBool(b))
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*s = LooseString(num.String())
	}
	return nil
}

// LooseBool decodes from a JSON boolean, a "true"/"false" style string, a
// number, or null. Anything else decodes to false.
type LooseBool bool

// UnmarshalJSON implements json.Unmarshaler
func (b *LooseBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*b = false
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*b = LooseBool(v)
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "true", "yes", "present", "current":
			*b = true
		}
	case 'n', '[', '{':
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		f, err := num.Float64()
		*b = LooseBool(err == nil && f != 0)
	}
	return nil
}

// StringList decodes a set of strings from an array, a single scalar or an
// object of grouped values. Empty entries are dropped.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := StringList{}
		for _, item := range items {
			var nested StringList
			if err := nested.UnmarshalJSON(item); err != nil {
				return err
			}
			out = append(out, nested...)
		}
		*l = out
	case '{':
		var groups map[string]json.RawMessage
		if err := json.Unmarshal(data, &groups); err != nil {
			return err
		}
		keys := make([]string, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := StringList{}
		for _, key := range keys {
			var nested StringList
			if err := nested.UnmarshalJSON(groups[key]); err != nil {
				return err
			}
			out = append(out, nested...)
		}
		*l = out
	default:
		var s LooseString
		if err := s.UnmarshalJSON(data); err != nil {
			return err
		}
		if s != "" {
			*l = StringList{string(s)}
		}
	}
	return nil
}

// looseList decodes a sequence of entries from an array, or a single entry
// from an object. Any other value decodes to an empty sequence.
type looseList[T any] []T

func (l *looseList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = nil
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(looseList[T], 0, len(items))
		for _, raw := range items {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return err
			}
			out = append(out, item)
		}
		*l = out
	case '{':
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		*l = looseList[T]{item}
	}
	return nil
}

// decodeFields decodes the named members of a JSON object into their
// targets. Unknown members are ignored and a value that is not an object
// leaves every target untouched.
func decodeFields(data []byte, fields map[string]json.Unmarshaler) error {
	if !isObject(data) {
		return nil
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	for key, target := range fields {
		raw, ok := members[key]
		if !ok {
			continue
		}
		if err := target.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	return nil
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}
