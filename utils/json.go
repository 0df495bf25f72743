package utils

import (
	"encoding/json"
)

// Marshal generic struct to JSON
func MarshalToJSON[T any](input T) (string, error) {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// MarshalToJSONIndent renders with 4-space indent, the layout the claim
// file has always used so it stays hand-editable.
func MarshalToJSONIndent[T any](input T) ([]byte, error) {
	return json.MarshalIndent(input, "", "    ")
}

// Unmarshal JSON to generic struct
func UnmarshalFromJSON[T any](data []byte, output *T) error {
	return json.Unmarshal(data, output)
}
