package models

import (
	"encoding/json"
	"maps"
)

type InvocationSource string

const (
	InvocationSourceDialogCodeHook      InvocationSource = "DialogCodeHook"
	InvocationSourceFulfillmentCodeHook InvocationSource = "FulfillmentCodeHook"
)

// IntentRequest is the input to a single dialog turn. Handlers treat it as read-only.
type IntentRequest struct {
	IntentName        string
	Slots             Slots
	InvocationSource  InvocationSource
	SessionAttributes map[string]string
}

// intentRequestWire is the Lex V1 event layout.
type intentRequestWire struct {
	CurrentIntent struct {
		Name  string `json:"name"`
		Slots Slots  `json:"slots"`
	} `json:"currentIntent"`
	InvocationSource  InvocationSource  `json:"invocationSource"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
}

func (r IntentRequest) MarshalJSON() ([]byte, error) {
	var w intentRequestWire
	w.CurrentIntent.Name = r.IntentName
	w.CurrentIntent.Slots = r.Slots
	w.InvocationSource = r.InvocationSource
	w.SessionAttributes = r.SessionAttributes
	return json.Marshal(w)
}

func (r *IntentRequest) UnmarshalJSON(data []byte) error {
	var w intentRequestWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = IntentRequest{
		IntentName:        w.CurrentIntent.Name,
		Slots:             w.CurrentIntent.Slots,
		InvocationSource:  w.InvocationSource,
		SessionAttributes: w.SessionAttributes,
	}
	return nil
}

// CopySessionAttributes returns a copy of the caller's session attributes for
// the response. nil stays nil.
func (r *IntentRequest) CopySessionAttributes() map[string]string {
	if r.SessionAttributes == nil {
		return nil
	}
	return maps.Clone(r.SessionAttributes)
}

// ==========================
// Responses
// ==========================

type DialogActionType string

const (
	DialogActionElicitSlot DialogActionType = "ElicitSlot"
	DialogActionDelegate   DialogActionType = "Delegate"
	DialogActionClose      DialogActionType = "Close"
)

type FulfillmentState string

// Turns that fail return an error instead of a Failed close, so Fulfilled is
// the only state produced.
const FulfillmentStateFulfilled FulfillmentState = "Fulfilled"

const ContentTypePlainText = "PlainText"

type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

func PlainText(content string) Message {
	return Message{ContentType: ContentTypePlainText, Content: content}
}

// DialogAction is one of ElicitSlot, Delegate or Close.
type DialogAction interface {
	Type() DialogActionType
	dialogAction()
}

// ElicitSlot asks the user for SlotToElicit again.
type ElicitSlot struct {
	IntentName   string  `json:"intentName"`
	Slots        Slots   `json:"slots"`
	SlotToElicit string  `json:"slotToElicit"`
	Message      Message `json:"message"`
}

// Delegate hands slot filling back to the platform.
type Delegate struct {
	Slots Slots `json:"slots"`
}

// Close ends the conversation.
type Close struct {
	FulfillmentState FulfillmentState `json:"fulfillmentState"`
	Message          Message          `json:"message"`
}

func (ElicitSlot) Type() DialogActionType { return DialogActionElicitSlot }
func (Delegate) Type() DialogActionType   { return DialogActionDelegate }
func (Close) Type() DialogActionType      { return DialogActionClose }

func (ElicitSlot) dialogAction() {}
func (Delegate) dialogAction()   {}
func (Close) dialogAction()      {}

func (a ElicitSlot) MarshalJSON() ([]byte, error) {
	type plain ElicitSlot
	return json.Marshal(struct {
		Type DialogActionType `json:"type"`
		plain
	}{a.Type(), plain(a)})
}

func (a Delegate) MarshalJSON() ([]byte, error) {
	type plain Delegate
	return json.Marshal(struct {
		Type DialogActionType `json:"type"`
		plain
	}{a.Type(), plain(a)})
}

func (a Close) MarshalJSON() ([]byte, error) {
	type plain Close
	return json.Marshal(struct {
		Type DialogActionType `json:"type"`
		plain
	}{a.Type(), plain(a)})
}

// DialogResponse is the only output of a successful turn.
type DialogResponse struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}
