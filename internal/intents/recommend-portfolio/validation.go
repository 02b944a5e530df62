package recommendportfolio

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateOfBirthLayout = "2006-01-02"

// Validate checks the age and investment amount slots. The amount is only
// looked at once an age has been given and accepted.
func (s *Service) Validate(age, investmentAmount *string) ValidationResult {
	if age == nil {
		return valid()
	}

	years, err := parseAge(*age, s.config.Now())
	if err != nil {
		return invalid(SlotBirthday, fmt.Sprintf(
			"%q is not a valid age, please provide your age in years or your date of birth.", *age))
	}
	if years > s.config.MaxAge {
		return invalid(SlotBirthday, fmt.Sprintf(
			"You should be under %d years old to use this service, please provide a different date of birth.",
			s.config.MaxAge))
	}

	if investmentAmount == nil {
		return valid()
	}

	amount, err := parseSlotInt(*investmentAmount)
	if err != nil {
		return invalid(SlotUSDAmount, fmt.Sprintf(
			"%q is not a valid number, please provide the amount to invest in whole dollars.", *investmentAmount))
	}
	if amount < s.config.MinInvestmentAmount {
		return invalid(SlotUSDAmount, fmt.Sprintf(
			"The amount to invest should be %d or more, please provide a correct amount.",
			s.config.MinInvestmentAmount))
	}

	return valid()
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(slot, message string) ValidationResult {
	return ValidationResult{IsValid: false, ViolatedSlot: slot, Message: message}
}

// parseSlotInt is the single parser for numeric slot values.
func parseSlotInt(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %q as integer: %w", value, err)
	}
	return n, nil
}

// parseAge accepts an age in whole years or a YYYY-MM-DD date of birth.
func parseAge(value string, now time.Time) (int, error) {
	years, err := parseSlotInt(value)
	if err == nil {
		return years, nil
	}

	dob, dateErr := time.Parse(dateOfBirthLayout, strings.TrimSpace(value))
	if dateErr != nil {
		return 0, err
	}
	if dob.After(now) {
		return 0, fmt.Errorf("date of birth %s is in the future", value)
	}
	return ageOn(dob, now), nil
}

// ageOn counts the birthdays between dob and now.
func ageOn(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
