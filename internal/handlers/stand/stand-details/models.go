// internal/handlers/stand/stand-details/models.go
package standdetails

import (
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/transform"
)

var standFields = transform.FieldSet{
	Simple:  []string{"id", "name"},
	Summary: []string{"terminal", "pier", "sizeCategory", "isAvailable"},
}

var entitySchema = validation.EntitySchema{
	Properties: map[string]validation.Property{
		"stand":     {Type: "any", Description: "stand name or numeric id"},
		"standId":   {Type: "any"},
		"standName": {Type: "string"},
		"format":    {Type: "string"},
	},
}
