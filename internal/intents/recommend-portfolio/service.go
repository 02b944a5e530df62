package recommendportfolio

import (
	"fmt"
	"strconv"

	"robo-advisor/internal/common/errors"
	"robo-advisor/internal/common/logger"
)

// Service holds the slot rules and the recommendation table. It has no state
// beyond its configuration.
type Service struct {
	config *Config
	logger logger.Logger
}

func NewService(config *Config, log logger.Logger) *Service {
	return &Service{
		config: config,
		logger: log,
	}
}

// Recommend turns a risk level and an amount into an allocation sentence.
// Single-instrument sentences quote the amount exactly as it was given, so
// only a split allocation needs the amount to parse.
func (s *Service) Recommend(riskLevel, investmentAmount string) (string, error) {
	allocation := AllocationFor(riskLevel)

	s.logger.Debug("computing recommendation", map[string]interface{}{
		"riskLevel":        riskLevel,
		"investmentAmount": investmentAmount,
		"bonds":            allocation.Bonds,
		"equities":         allocation.Equities,
	})

	switch {
	case allocation.Equities == 0:
		return fmt.Sprintf("Invest all $%s in bonds(AGG).", investmentAmount), nil
	case allocation.Bonds == 0:
		return fmt.Sprintf("Invest all $%s in equities (SPY).", investmentAmount), nil
	}

	amount, err := parseSlotInt(investmentAmount)
	if err != nil {
		return "", errors.NewInvalidSlotValueError(SlotUSDAmount, investmentAmount, err)
	}
	return fmt.Sprintf("Invest $%s in bonds(AGG) and $%s in equities (SPY).",
		formatDollars(float64(amount)*allocation.Bonds),
		formatDollars(float64(amount)*allocation.Equities)), nil
}

func formatDollars(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
