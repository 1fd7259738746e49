// internal/handlers/maintenance/maintenance-status/models.go
package maintenancestatus

import (
	"airport-query-engine/internal/common/validation"
	"airport-query-engine/internal/engine/transform"
)

var requestFields = transform.FieldSet{
	Simple:  []string{"id", "standId", "status"},
	Summary: []string{"title", "priority", "startsAt", "endsAt"},
}

var standFields = transform.FieldSet{
	Simple: []string{"id", "name", "terminal"},
}

var entitySchema = validation.EntitySchema{
	Properties: map[string]validation.Property{
		"stand":   {Type: "any"},
		"standId": {Type: "any"},
		"format":  {Type: "string"},
	},
}

// StandStatus is the answer to maintenance.status.
type StandStatus struct {
	Stand            map[string]interface{} `json:"stand"`
	UnderMaintenance bool                   `json:"underMaintenance"`
	OpenCount        int                    `json:"openCount"`
	Requests         []interface{}          `json:"requests"`
}
