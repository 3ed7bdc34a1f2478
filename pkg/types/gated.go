package types

import (
	"bytes"
	"encoding/json"
)

// GatedFlag decodes the Hub "gated" field, which is either a bool or a string mode.
type GatedFlag bool

func (g *GatedFlag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")), bytes.Equal(b, []byte(`""`)):
		*g = false
		return nil
	case bytes.Equal(b, []byte("true")):
		*g = true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*g = s != "" && s != "false"
	return nil
}

func (g GatedFlag) MarshalJSON() ([]byte, error) { return json.Marshal(bool(g)) }
