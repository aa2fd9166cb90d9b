package orchestration

import "github.com/agbru/bigcalc/internal/calc"

// GetCalculatorsToRun resolves the strategy selection. "all" yields every
// registered calculator in sorted name order; any other value yields that
// calculator alone, or nil when the name is unknown.
func GetCalculatorsToRun(algo string, factory calc.CalculatorFactory) []calc.Calculator {
	if algo == "all" {
		names := factory.List()
		calculators := make([]calc.Calculator, 0, len(names))
		for _, name := range names {
			if c, err := factory.Get(name); err == nil {
				calculators = append(calculators, c)
			}
		}
		return calculators
	}
	if c, err := factory.Get(algo); err == nil {
		return []calc.Calculator{c}
	}
	return nil
}
