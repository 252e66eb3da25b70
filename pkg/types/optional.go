package types

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// OptionalString is a JSON string field that remembers whether it appeared in
// the payload at all. Absent fields keep their prior value on partial updates;
// an explicit null or a blank string clears the stored value.
type OptionalString struct {
	Set   bool
	Value *string
}

// String returns an OptionalString carrying v.
func String(v string) OptionalString {
	return OptionalString{Set: true, Value: &v}
}

// Null returns an OptionalString that was supplied as an explicit null.
func Null() OptionalString {
	return OptionalString{Set: true}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, jsonNull) {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return jsonNull, nil
	}
	return json.Marshal(*o.Value)
}
