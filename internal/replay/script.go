package replay

import (
	"bytes"
	"fmt"
	"os"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/models"

	"gopkg.in/yaml.v3"
)

// Script is a recorded conversation: the turns a platform would send, in
// order, and what each response should look like.
type Script struct {
	Name              string            `yaml:"name"`
	IntentName        string            `yaml:"intentName"`
	SessionAttributes map[string]string `yaml:"sessionAttributes"`
	Turns             []Turn            `yaml:"turns"`
}

type Turn struct {
	InvocationSource models.InvocationSource `yaml:"invocationSource"`
	// IntentName overrides the script's intent for this turn only.
	IntentName string `yaml:"intentName,omitempty"`
	// Slots are laid over the slots returned by the previous turn. An explicit
	// null clears a slot.
	Slots  map[string]*string `yaml:"slots"`
	Expect Expectation        `yaml:"expect"`
}

// Expectation is checked against a turn's outcome. Empty fields are not checked.
type Expectation struct {
	Action           models.DialogActionType `yaml:"action"`
	SlotToElicit     string                  `yaml:"slotToElicit"`
	NullSlots        []string                `yaml:"nullSlots"`
	MessageContains  []string                `yaml:"messageContains"`
	FulfillmentState models.FulfillmentState `yaml:"fulfillmentState"`
	Error            errors.ErrorCode        `yaml:"error"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewScriptLoadFailedError(path, err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return nil, errors.NewScriptLoadFailedError(path, err)
	}
	return script, nil
}

func ParseScript(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var script Script
	if err := dec.Decode(&script); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := script.validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

func (s *Script) validate() error {
	if s.Name == "" {
		return fmt.Errorf("script name is required")
	}
	if len(s.Turns) == 0 {
		return fmt.Errorf("script %s has no turns", s.Name)
	}
	for i, turn := range s.Turns {
		if turn.InvocationSource == "" {
			return fmt.Errorf("turn %d: invocationSource is required", i+1)
		}
		if turn.IntentName == "" && s.IntentName == "" {
			return fmt.Errorf("turn %d: no intent name on the turn or the script", i+1)
		}
		if turn.Expect.Error != "" && turn.Expect.Action != "" {
			return fmt.Errorf("turn %d: expect either an action or an error, not both", i+1)
		}
	}
	return nil
}

func (s *Script) intentFor(turn Turn) string {
	if turn.IntentName != "" {
		return turn.IntentName
	}
	return s.IntentName
}
