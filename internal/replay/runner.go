package replay

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/common/logger"
	"robo-advisor/internal/common/metrics"
	"robo-advisor/internal/common/observability"
	"robo-advisor/internal/dialog"
	"robo-advisor/internal/models"

	"github.com/google/uuid"
)

type Options struct {
	StopOnFailure bool
	// Recorder and Observability are optional.
	Recorder      *metrics.Recorder
	Observability *observability.Observability
}

// Runner plays scripts against a TurnHandler the way the platform would:
// session attributes and slots from each response feed the next request.
type Runner struct {
	handler dialog.TurnHandler
	logger  logger.Logger
	opts    Options
}

func NewRunner(handler dialog.TurnHandler, log logger.Logger, opts Options) *Runner {
	if opts.Recorder != nil || opts.Observability != nil {
		handler = dialog.Instrument(handler, opts.Recorder, opts.Observability)
	}
	return &Runner{
		handler: handler,
		logger:  log.WithFields(map[string]interface{}{"component": "replay"}),
		opts:    opts,
	}
}

type TurnResult struct {
	Index    int
	TurnID   string
	Request  *models.IntentRequest
	Response *models.DialogResponse
	Err      error
	Failures []string
}

func (r TurnResult) Passed() bool {
	return len(r.Failures) == 0
}

type Report struct {
	Script string
	Turns  []TurnResult
}

func (r *Report) FailedTurns() int {
	n := 0
	for _, t := range r.Turns {
		if !t.Passed() {
			n++
		}
	}
	return n
}

func (r *Report) Passed() bool {
	return r.FailedTurns() == 0
}

// Err returns an EXPECTATION_MISMATCH error when any turn failed.
func (r *Report) Err() error {
	if r.Passed() {
		return nil
	}
	return errors.NewExpectationMismatchError(r.Script, r.FailedTurns())
}

// Run replays every turn of script in order. The returned error is only set
// when ctx ends; expectation failures are reported in the Report.
func (r *Runner) Run(ctx context.Context, script *Script) (*Report, error) {
	report := &Report{Script: script.Name}
	sessionAttributes := maps.Clone(script.SessionAttributes)
	slots := models.Slots{}

	for i, turn := range script.Turns {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		turnID := uuid.NewString()
		req := &models.IntentRequest{
			IntentName:        script.intentFor(turn),
			InvocationSource:  turn.InvocationSource,
			Slots:             overlaySlots(slots, turn.Slots),
			SessionAttributes: maps.Clone(sessionAttributes),
		}

		resp, err := r.handler.HandleTurn(dialog.WithTurnID(ctx, turnID), req)

		result := TurnResult{
			Index:    i + 1,
			TurnID:   turnID,
			Request:  req,
			Response: resp,
			Err:      err,
			Failures: check(turn.Expect, resp, err),
		}
		report.Turns = append(report.Turns, result)

		r.logger.Info("turn replayed", map[string]interface{}{
			"script": script.Name,
			"turn":   result.Index,
			"turnId": turnID,
			"passed": result.Passed(),
		})

		if resp != nil {
			sessionAttributes = resp.SessionAttributes
			if next, ok := actionSlots(resp.DialogAction); ok {
				slots = next
			}
		}

		if !result.Passed() && r.opts.StopOnFailure {
			r.logger.Warn("stopping replay after failed turn", map[string]interface{}{
				"script":   script.Name,
				"turn":     result.Index,
				"failures": result.Failures,
			})
			break
		}
	}

	return report, nil
}

// overlaySlots applies a turn's slot values over the slots carried forward.
func overlaySlots(base models.Slots, overlay map[string]*string) models.Slots {
	merged := base.Clone().ToMap()
	for k, v := range overlay {
		merged[k] = v
	}
	return models.SlotsFromMap(merged)
}

func check(expect Expectation, resp *models.DialogResponse, err error) []string {
	var failures []string

	if expect.Error != "" {
		if err == nil {
			return []string{fmt.Sprintf("expected error %s, got %s response", expect.Error, resp.DialogAction.Type())}
		}
		if !errors.HasCode(err, expect.Error) {
			failures = append(failures, fmt.Sprintf("expected error %s, got %v", expect.Error, err))
		}
		return failures
	}
	if err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	}

	action := resp.DialogAction
	if expect.Action != "" && action.Type() != expect.Action {
		failures = append(failures, fmt.Sprintf("expected %s action, got %s", expect.Action, action.Type()))
	}

	if expect.SlotToElicit != "" {
		elicit, ok := action.(models.ElicitSlot)
		if !ok || elicit.SlotToElicit != expect.SlotToElicit {
			failures = append(failures, fmt.Sprintf("expected slot %s to be elicited", expect.SlotToElicit))
		}
	}

	if expect.FulfillmentState != "" {
		closing, ok := action.(models.Close)
		if !ok || closing.FulfillmentState != expect.FulfillmentState {
			failures = append(failures, fmt.Sprintf("expected fulfillment state %s", expect.FulfillmentState))
		}
	}

	if len(expect.NullSlots) > 0 {
		slots, ok := actionSlots(action)
		for _, name := range expect.NullSlots {
			if !ok || slots.Get(name) != nil {
				failures = append(failures, fmt.Sprintf("expected slot %s to be null", name))
			}
		}
	}

	if len(expect.MessageContains) > 0 {
		message, ok := actionMessage(action)
		for _, fragment := range expect.MessageContains {
			if !ok || !strings.Contains(message.Content, fragment) {
				failures = append(failures, fmt.Sprintf("expected message to contain %q", fragment))
			}
		}
	}

	return failures
}

func actionSlots(action models.DialogAction) (models.Slots, bool) {
	switch a := action.(type) {
	case models.ElicitSlot:
		return a.Slots, true
	case models.Delegate:
		return a.Slots, true
	default:
		return models.Slots{}, false
	}
}

func actionMessage(action models.DialogAction) (models.Message, bool) {
	switch a := action.(type) {
	case models.ElicitSlot:
		return a.Message, true
	case models.Close:
		return a.Message, true
	default:
		return models.Message{}, false
	}
}
