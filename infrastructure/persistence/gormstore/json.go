package gormstore

import "encoding/json"

// mustJSON encodes values for serializer:json columns in map-based updates,
// where GORM does not apply field serializers.
func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
