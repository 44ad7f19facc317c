package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

func nullable(types ...string) map[string]any {
	return map[string]any{"type": append(types, "null")}
}

// ticketSchema describes the reply expected from the model: an array of flight records.
// Extra keys are tolerated; wrong types are not.
func ticketSchema() map[string]any {
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "array",
		"items": map[string]any{
			"type":     "object",
			"required": []any{"flightDetails"},
			"properties": map[string]any{
				"flightDetails": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"flightNumber":  nullable("string"),
						"departureTime": nullable("string"),
						"arrivalTime":   nullable("string"),
						"origin":        nullable("string"),
						"destination":   nullable("string"),
						"price":         nullable("number"),
					},
				},
				"passengerDetails": map[string]any{
					"type": []any{"array", "null"},
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"name":           nullable("string"),
							"passportNumber": nullable("string"),
							"seatNumber":     nullable("string"),
							"mealPreference": nullable("string"),
						},
					},
				},
			},
		},
	}
}

func compileTicketSchema() (*jsonschema.Schema, error) {
	b, err := json.Marshal(ticketSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("tickets.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("tickets.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
