// internal/handlers/aircraft/aircraft-info/models.go
package aircraftinfo

import (
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/transform"
)

var aircraftFields = transform.FieldSet{
	Simple:  []string{"id", "iataCode", "icaoCode", "name"},
	Summary: []string{"manufacturer", "sizeCategory"},
}

var entitySchema = validation.EntitySchema{
	Properties: map[string]validation.Property{
		"aircraftType": {Type: "any"},
		"aircraft":     {Type: "any"},
		"type":         {Type: "any"},
		"format":       {Type: "string"},
	},
}
