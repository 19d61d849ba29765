// Package financing holds the consolidated installment schedule, arrears and
// ledger calculations. Everything here is pure: same inputs, same outputs, no
// I/O, so it is safe to recompute on every snapshot the persistence layer
// hands us.
package financing

import "time"

// SeverityThresholds maps overdue-installment counts to collection priority.
type SeverityThresholds struct {
	Critical int
	High     int
	Medium   int
}

// Config carries the tunable business rules. It is built once at process
// start and passed by value; there are no ambient singletons.
type Config struct {
	InstallmentPeriodDays  int
	ReceiptRequiredMethods map[string]bool
	SeverityThresholds     SeverityThresholds
}

func DefaultConfig() Config {
	return Config{
		InstallmentPeriodDays: 7,
		ReceiptRequiredMethods: map[string]bool{
			"transfer":       true,
			"mobile_payment": true,
		},
		SeverityThresholds: SeverityThresholds{
			Critical: 8,
			High:     5,
			Medium:   3,
		},
	}
}

// Period returns the installment cadence as a duration.
func (c Config) Period() time.Duration {
	return time.Duration(c.InstallmentPeriodDays) * 24 * time.Hour
}

// ReceiptRequired reports whether the payment method needs a receipt
// reference.
func (c Config) ReceiptRequired(method string) bool {
	return c.ReceiptRequiredMethods[method]
}
