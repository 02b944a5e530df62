package recommendportfolio

import (
	"context"
	"fmt"

	"robo-advisor/internal/common/logger"
	"robo-advisor/internal/dialog"
	"robo-advisor/internal/models"
)

type Handler struct {
	config  *Config
	service *Service
	logger  logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"intent": IntentName})
	return &Handler{
		config:  config,
		service: NewService(config, log),
		logger:  log,
	}
}

func (h *Handler) IntentName() string {
	return IntentName
}

// OnDialog validates the slots collected so far. A failed check clears the
// offending slot and asks for it again; otherwise slot filling goes back to
// the platform.
func (h *Handler) OnDialog(ctx context.Context, req *models.IntentRequest) (*models.DialogResponse, error) {
	result := h.service.Validate(req.Slots.Age, req.Slots.InvestmentAmount)
	if result.IsValid {
		return dialog.Delegate(req, req.Slots), nil
	}

	slots := req.Slots.Clone()
	clearSlot(&slots, result.ViolatedSlot)

	h.logger.Info("slot rejected", map[string]interface{}{
		"turnId":       dialog.TurnIDFromContext(ctx),
		"violatedSlot": result.ViolatedSlot,
	})

	return dialog.ElicitSlot(req, slots, result.ViolatedSlot, result.Message), nil
}

// OnFulfillment closes the conversation as fulfilled. The one exception is a
// split allocation whose amount skipped OnDialog's checks (no age was given)
// and does not parse: there is no slot to elicit here, so the turn fails.
func (h *Handler) OnFulfillment(_ context.Context, req *models.IntentRequest) (*models.DialogResponse, error) {
	recommendation, err := h.service.Recommend(
		models.Value(req.Slots.RiskLevel),
		models.Value(req.Slots.InvestmentAmount),
	)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf(
		"%s thank you for your information; based on the risk level you defined, my recommendation is to choose an investment portfolio with %s",
		models.Value(req.Slots.FirstName), recommendation)

	return dialog.Close(req, models.FulfillmentStateFulfilled, message), nil
}

// clearSlot nulls the field behind a violated slot name.
func clearSlot(slots *models.Slots, violatedSlot string) {
	switch violatedSlot {
	case SlotBirthday:
		slots.Age = nil
	case SlotUSDAmount:
		slots.InvestmentAmount = nil
	}
}
