package models

// IntentRequestSchema describes the subset of the Lex V1 event the dialog
// handlers read. Other top-level event fields are allowed and ignored.
const IntentRequestSchema = `{
	"type": "object",
	"required": ["currentIntent", "invocationSource"],
	"properties": {
		"currentIntent": {
			"type": "object",
			"required": ["name", "slots"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"slots": {
					"type": "object",
					"additionalProperties": {"type": ["string", "null"]}
				}
			}
		},
		"invocationSource": {
			"type": "string",
			"enum": ["DialogCodeHook", "FulfillmentCodeHook"]
		},
		"sessionAttributes": {
			"type": ["object", "null"],
			"additionalProperties": {"type": "string"}
		}
	}
}`
