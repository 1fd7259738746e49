// internal/handlers/aircraft/aircraft-stands/models.go
package aircraftstands

import (
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/transform"
)

var standFields = transform.FieldSet{
	Simple:  []string{"id", "name"},
	Summary: []string{"terminal", "pier", "sizeCategory", "isAvailable"},
}

var aircraftFields = transform.FieldSet{
	Simple: []string{"iataCode", "icaoCode", "name", "sizeCategory"},
}

var entitySchema = validation.EntitySchema{
	Properties: map[string]validation.Property{
		"aircraftType": {Type: "any", Description: "IATA or ICAO code, id or name"},
		"aircraft":     {Type: "any"},
		"type":         {Type: "any"},
		"terminal":     {Type: "string"},
		"pier":         {Type: "string"},
		"available":    {Type: "any"},
		"jetBridge":    {Type: "any"},
		"limit":        {Type: "any"},
		"format":       {Type: "string"},
	},
}

// Result is the payload of a successful answer.
type Result struct {
	Aircraft     map[string]interface{} `json:"aircraft"`
	SizeCategory string                 `json:"sizeCategory"`
	Stands       []interface{}          `json:"stands"`
}
