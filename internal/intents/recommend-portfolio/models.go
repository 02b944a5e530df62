package recommendportfolio

const IntentName = "RecommendPortfolio"

// Slots named in re-elicitation prompts. The platform labels the age slot
// "birthday" and the amount slot "usdAmount".
const (
	SlotBirthday  = "birthday"
	SlotUSDAmount = "usdAmount"
)

type RiskLevel string

const (
	RiskLevelNone         RiskLevel = "None"
	RiskLevelVeryLow      RiskLevel = "Very Low"
	RiskLevelLow          RiskLevel = "Low"
	RiskLevelModerate     RiskLevel = "Moderate"
	RiskLevelSemiModerate RiskLevel = "Semi-Moderate"
	RiskLevelHigh         RiskLevel = "High"
)

// Allocation splits an investment between bonds and equities. Bonds+Equities == 1.
type Allocation struct {
	Bonds    float64
	Equities float64
}

var allEquities = Allocation{Bonds: 0.0, Equities: 1.0}

var allocations = map[RiskLevel]Allocation{
	RiskLevelNone:         {Bonds: 1.0, Equities: 0.0},
	RiskLevelVeryLow:      {Bonds: 0.9, Equities: 0.1},
	RiskLevelLow:          {Bonds: 0.8, Equities: 0.2},
	RiskLevelModerate:     {Bonds: 0.4, Equities: 0.6},
	RiskLevelSemiModerate: {Bonds: 0.3, Equities: 0.7},
	RiskLevelHigh:         allEquities,
}

// AllocationFor returns the split for a risk level. Unknown levels are treated as High.
func AllocationFor(riskLevel string) Allocation {
	if a, ok := allocations[RiskLevel(riskLevel)]; ok {
		return a
	}
	return allEquities
}

// ValidationResult is produced fresh by every Validate call. ViolatedSlot and
// Message are empty when IsValid is true.
type ValidationResult struct {
	IsValid      bool   `json:"isValid"`
	ViolatedSlot string `json:"violatedSlot,omitempty"`
	Message      string `json:"message,omitempty"`
}
