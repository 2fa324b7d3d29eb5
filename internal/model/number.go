package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Int accepts both 12 and "12"; the bank emits either depending on endpoint.
type Int int64

func (i *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*i = 0
			return nil
		}
		data = []byte(s)
	}
	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse int %q: %w", data, err)
	}
	*i = Int(n)
	return nil
}

// Bool accepts true/false, 0/1 and their string forms.
type Bool bool

func (b *Bool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", `"true"`:
		*b = true
		return nil
	case "false", `"false"`, "null", `""`:
		*b = false
		return nil
	}
	var n Int
	if err := n.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("parse bool %q: %w", data, err)
	}
	*b = n != 0
	return nil
}
