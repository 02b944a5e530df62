package dialog

import (
	"encoding/json"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/common/validation"
	"robo-advisor/internal/models"
)

var requestSchema = validation.MustCompileSchema(models.IntentRequestSchema)

// DecodeIntentRequest checks a raw Lex event against the request schema and
// decodes it. Syntax errors yield MALFORMED_REQUEST, schema violations
// REQUEST_SCHEMA_VIOLATION.
func DecodeIntentRequest(raw []byte) (*models.IntentRequest, error) {
	result, err := requestSchema.ValidateDocument(raw)
	if err != nil {
		return nil, errors.NewMalformedRequestError(err)
	}
	if !result.Valid {
		return nil, errors.NewRequestSchemaViolationError(result.GetErrorMessages())
	}

	var req models.IntentRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, errors.NewMalformedRequestError(err)
	}
	return &req, nil
}
