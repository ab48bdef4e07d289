package serialize

import (
	"encoding/json"
)

// MarshalIndentJSON renders data for humans, two space indent and a trailing newline.
func MarshalIndentJSON(data any) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
