// Package models holds the canonical client-side schema for the entities the
// remote endpoint owns. The wire data predates this client and is loosely
// typed, so normalization lives here at the boundary instead of being
// scattered through view logic.
package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexBool accepts a boolean that historical records may store as the strings
// "TRUE"/"FALSE" (any case). Anything unrecognized decodes as false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	var asBool bool
	if err := json.Unmarshal(trimmed, &asBool); err == nil {
		*b = FlexBool(asBool)
		return nil
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		*b = FlexBool(strings.EqualFold(strings.TrimSpace(asString), "TRUE"))
		return nil
	}

	*b = false
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

func (b FlexBool) Bool() bool {
	return bool(b)
}

// User is a managed account record as the remote endpoint reports it.
type User struct {
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	Active      FlexBool `json:"active"`
	LastLoginAt string   `json:"lastLoginAt,omitempty"`
}
