// internal/handlers/airline/airline-info/models.go
package airlineinfo

import (
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/transform"
)

var airlineFields = transform.FieldSet{
	Simple:  []string{"id", "iataCode", "name"},
	Summary: []string{"icaoCode", "country"},
}

var entitySchema = validation.EntitySchema{
	Properties: map[string]validation.Property{
		"airline":     {Type: "any"},
		"airlineCode": {Type: "string"},
		"carrier":     {Type: "any"},
		"format":      {Type: "string"},
	},
}
