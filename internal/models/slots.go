package models

import (
	"encoding/json"
	"maps"
)

// Slot names as they appear on the wire.
const (
	SlotFirstName        = "firstName"
	SlotAge              = "age"
	SlotInvestmentAmount = "investmentAmount"
	SlotRiskLevel        = "riskLevel"
)

// Slots holds the values collected so far. A nil field means the slot has not
// been filled yet. Keys the handler does not know about are kept in Extra and
// written back unchanged.
type Slots struct {
	FirstName        *string
	Age              *string
	InvestmentAmount *string
	RiskLevel        *string

	Extra map[string]*string

	// onWire lists the named slots present when the mapping was decoded.
	// nil means the value was built in code and every named slot is written.
	onWire map[string]bool
}

// Clone returns a deep copy so a handler can clear slots without touching the request.
func (s Slots) Clone() Slots {
	out := Slots{
		FirstName:        cloneString(s.FirstName),
		Age:              cloneString(s.Age),
		InvestmentAmount: cloneString(s.InvestmentAmount),
		RiskLevel:        cloneString(s.RiskLevel),
		onWire:           maps.Clone(s.onWire),
	}
	if s.Extra != nil {
		out.Extra = make(map[string]*string, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = cloneString(v)
		}
	}
	return out
}

// Value returns the string behind a slot, or "" when it is unset.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// StringPtr is a convenience for building slot values.
func StringPtr(s string) *string {
	return &s
}

// ToMap returns the wire form of the slots plus Extra. A decoded mapping keeps
// its original key set: a named slot that was absent is written only once it
// holds a value. Slots built in code write all four named keys.
func (s Slots) ToMap() map[string]*string {
	m := make(map[string]*string, len(s.Extra)+4)
	for k, v := range s.Extra {
		m[k] = v
	}
	s.put(m, SlotFirstName, s.FirstName)
	s.put(m, SlotAge, s.Age)
	s.put(m, SlotInvestmentAmount, s.InvestmentAmount)
	s.put(m, SlotRiskLevel, s.RiskLevel)
	return m
}

func (s Slots) put(m map[string]*string, name string, v *string) {
	if v != nil || s.onWire == nil || s.onWire[name] {
		m[name] = v
	}
}

// SlotsFromMap is the inverse of ToMap. The map is not retained.
func SlotsFromMap(m map[string]*string) Slots {
	s := Slots{
		FirstName:        m[SlotFirstName],
		Age:              m[SlotAge],
		InvestmentAmount: m[SlotInvestmentAmount],
		RiskLevel:        m[SlotRiskLevel],
	}
	if m != nil {
		s.onWire = make(map[string]bool, 4)
	}
	for k, v := range m {
		switch k {
		case SlotFirstName, SlotAge, SlotInvestmentAmount, SlotRiskLevel:
			s.onWire[k] = true
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]*string)
		}
		s.Extra[k] = v
	}
	return s
}

// Get looks a slot up by its wire name.
func (s Slots) Get(name string) *string {
	return s.ToMap()[name]
}

func (s Slots) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

func (s *Slots) UnmarshalJSON(data []byte) error {
	var m map[string]*string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*s = SlotsFromMap(m)
	return nil
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
