package dialog

import (
	"context"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/common/logger"
	"robo-advisor/internal/models"
)

// IntentHandler runs the two phases of one intent.
type IntentHandler interface {
	IntentName() string
	// OnDialog runs while slots are still being collected.
	OnDialog(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error)
	// OnFulfillment runs once every slot is filled.
	OnFulfillment(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error)
}

// Dispatcher routes a turn to its intent handler. It keeps no state between
// turns and can be shared by concurrent callers.
type Dispatcher struct {
	handler      IntentHandler
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewDispatcher(handler IntentHandler, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		handler:      handler,
		logger:       log.WithFields(map[string]interface{}{"component": "dispatcher"}),
		errorHandler: errors.NewErrorHandler(log),
	}
}

// HandleTurn answers one turn. Every returned error is a *errors.StandardError
// and no response accompanies it.
func (d *Dispatcher) HandleTurn(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error) {
	turnID := TurnIDFromContext(ctx)

	resp, err := d.dispatch(ctx, req)
	if err != nil {
		return nil, d.errorHandler.HandleTurnError(turnID, err)
	}

	d.logger.Info("turn handled", map[string]interface{}{
		"turnId":           turnID,
		"intent":           req.IntentName,
		"invocationSource": string(req.InvocationSource),
		"dialogAction":     string(resp.DialogAction.Type()),
	})
	return resp, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error) {
	if req.IntentName != d.handler.IntentName() {
		return nil, errors.NewUnsupportedIntentError(req.IntentName)
	}

	switch req.InvocationSource {
	case models.InvocationSourceDialogCodeHook:
		return d.handler.OnDialog(ctx, req)
	case models.InvocationSourceFulfillmentCodeHook:
		return d.handler.OnFulfillment(ctx, req)
	default:
		return nil, errors.NewUnsupportedInvocationSourceError(string(req.InvocationSource))
	}
}

type turnIDKey struct{}

// WithTurnID tags ctx with an identifier used to correlate turn logs.
func WithTurnID(ctx context.Context, turnID string) context.Context {
	return context.WithValue(ctx, turnIDKey{}, turnID)
}

func TurnIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(turnIDKey{}).(string)
	return id
}
