package enums

import "fmt"

// TransactionType maps to the transaction_type_enum enum in Postgres.
// It is the closed set of ledger movements the audit log records.
type TransactionType string

const (
	TransactionTypeRestock  TransactionType = "restock"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeSold     TransactionType = "sold"
	TransactionTypeReturn   TransactionType = "return"
	TransactionTypeTransfer TransactionType = "transfer"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeRestock,
	TransactionTypeWithdraw,
	TransactionTypeSold,
	TransactionTypeReturn,
	TransactionTypeTransfer,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the value matches the canonical transaction enum.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionType converts raw input into TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
