// internal/handlers/stand/stand-find/models.go
package standfind

import (
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/transform"
)

var standFields = transform.FieldSet{
	Simple:  []string{"id", "name"},
	Summary: []string{"terminal", "pier", "sizeCategory", "isAvailable", "hasJetBridge"},
}

var sizePattern = "^[A-Fa-f]$"

var entitySchema = validation.EntitySchema{
	Properties: map[string]validation.Property{
		"terminal":     {Type: "string"},
		"pier":         {Type: "string"},
		"sizeCategory": {Type: "string", Pattern: sizePattern},
		"size":         {Type: "string", Pattern: sizePattern},
		"available":    {Type: "any"},
		"jetBridge":    {Type: "any"},
		"limit":        {Type: "any"},
		"query":        {Type: "string"},
		"text":         {Type: "string"},
		"near":         {Type: "any"},
		"latitude":     {Type: "number"},
		"longitude":    {Type: "number"},
		"radius":       {Type: "number"},
		"format":       {Type: "string"},
	},
}

// point is a coordinate taken from the near, latitude and longitude entities.
type point struct {
	Lat float64
	Lon float64
}
