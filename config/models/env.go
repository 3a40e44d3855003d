package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EnvVar is a single environment entry
type EnvVar struct {
	Key   string
	Value string
}

// EnvVars is an insertion-ordered string mapping. The zero value is empty and ready to use.
type EnvVars []EnvVar

// Get returns the value stored under key
func (e EnvVars) Get(key string) (string, bool) {
	for _, v := range e {
		if v.Key == key {
			return v.Value, true
		}
	}
	return "", false
}

// Set replaces the value under key in place, or appends it.
func (e *EnvVars) Set(key, value string) {
	for i := range *e {
		if (*e)[i].Key == key {
			(*e)[i].Value = value
			return
		}
	}
	*e = append(*e, EnvVar{Key: key, Value: value})
}

// Delete removes key if present
func (e *EnvVars) Delete(key string) {
	for i := range *e {
		if (*e)[i].Key == key {
			*e = append((*e)[:i], (*e)[i+1:]...)
			return
		}
	}
}

func (e EnvVars) Len() int { return len(e) }

// Keys returns the keys in order
func (e EnvVars) Keys() []string {
	keys := make([]string, len(e))
	for i, v := range e {
		keys[i] = v.Key
	}
	return keys
}

// Map returns an unordered copy
func (e EnvVars) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, v := range e {
		m[v.Key] = v.Value
	}
	return m
}

// Clone returns an independent copy; nil stays nil.
func (e EnvVars) Clone() EnvVars {
	if e == nil {
		return nil
	}
	out := make(EnvVars, len(e))
	copy(out, e)
	return out
}

// Equal reports whether both hold the same entries in the same order.
func (e EnvVars) Equal(other EnvVars) bool {
	if len(e) != len(other) {
		return false
	}
	for i := range e {
		if e[i] != other[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes an object with keys in insertion order.
func (e EnvVars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(v.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(v.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a string-valued object keeping document order.
func (e *EnvVars) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("env must be an object")
	}

	out := EnvVars{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("env %q: %w", key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*e = out
	return nil
}
