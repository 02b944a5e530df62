package dialog

import "robo-advisor/internal/models"

// The builders below copy the request's session attributes into the response
// untouched.

func ElicitSlot(req *models.IntentRequest, slots models.Slots, slotToElicit, message string) *models.DialogResponse {
	return &models.DialogResponse{
		SessionAttributes: req.CopySessionAttributes(),
		DialogAction: models.ElicitSlot{
			IntentName:   req.IntentName,
			Slots:        slots,
			SlotToElicit: slotToElicit,
			Message:      models.PlainText(message),
		},
	}
}

func Delegate(req *models.IntentRequest, slots models.Slots) *models.DialogResponse {
	return &models.DialogResponse{
		SessionAttributes: req.CopySessionAttributes(),
		DialogAction:      models.Delegate{Slots: slots},
	}
}

func Close(req *models.IntentRequest, state models.FulfillmentState, message string) *models.DialogResponse {
	return &models.DialogResponse{
		SessionAttributes: req.CopySessionAttributes(),
		DialogAction: models.Close{
			FulfillmentState: state,
			Message:          models.PlainText(message),
		},
	}
}
