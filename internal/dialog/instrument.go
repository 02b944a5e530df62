package dialog

import (
	"context"
	"time"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/common/metrics"
	"robo-advisor/internal/common/observability"
	"robo-advisor/internal/models"
)

// TurnHandler is satisfied by *Dispatcher.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error)
}

type instrumented struct {
	next     TurnHandler
	recorder *metrics.Recorder
	obs      *observability.Observability
}

// Instrument records every turn handled by next. Either sink may be nil.
func Instrument(next TurnHandler, recorder *metrics.Recorder, obs *observability.Observability) TurnHandler {
	return &instrumented{next: next, recorder: recorder, obs: obs}
}

func (h *instrumented) HandleTurn(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error) {
	start := time.Now()
	resp, err := h.next.HandleTurn(ctx, req)
	elapsed := time.Since(start)

	source := string(req.InvocationSource)
	var status string
	if err != nil {
		status = string(errors.Normalize(err).Code)
	} else {
		status = string(resp.DialogAction.Type())
	}

	if h.recorder != nil {
		if err != nil {
			h.recorder.RecordFailure(status)
		} else {
			h.recorder.RecordTurn(req.IntentName, source, status, elapsed)
			if elicit, ok := resp.DialogAction.(models.ElicitSlot); ok {
				h.recorder.RecordSlotViolation(elicit.SlotToElicit)
			}
		}
	}

	h.obs.RecordTurnProcessed(ctx, source, status)
	h.obs.RecordTurnDuration(ctx, elapsed, source)

	return resp, err
}
