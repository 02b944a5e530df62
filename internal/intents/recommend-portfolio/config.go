package recommendportfolio

import (
	"fmt"
	"time"
)

type Config struct {
	MaxAge              int
	MinInvestmentAmount int
	// Now is the clock used to turn a date of birth into an age.
	Now func() time.Time
}

func DefaultConfig() *Config {
	return &Config{
		MaxAge:              65,
		MinInvestmentAmount: 5000,
		Now:                 time.Now,
	}
}

func (c *Config) Validate() error {
	if c.MaxAge <= 0 {
		return fmt.Errorf("max_age must be positive")
	}
	if c.MinInvestmentAmount < 0 {
		return fmt.Errorf("min_investment_amount must not be negative")
	}
	if c.Now == nil {
		return fmt.Errorf("clock is required")
	}
	return nil
}
