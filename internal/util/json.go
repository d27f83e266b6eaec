package util

import "encoding/json"

// ConvertStructToJson marshals a value to its JSON string form,
// returning "{}" when marshalling fails.
func ConvertStructToJson(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(data)
}
