package errors

// ErrorHandler logs fatal turn errors in a standardized shape.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleTurnError normalizes err, logs it against the turn and returns the
// normalized error for the caller to surface.
func (h *ErrorHandler) HandleTurnError(turnID string, err error) *StandardError {
	stdErr := Normalize(err)
	if stdErr == nil {
		return nil
	}

	fields := map[string]interface{}{
		"turnId":        turnID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}

	h.logger.Error("turn failed", fields)
	return stdErr
}
