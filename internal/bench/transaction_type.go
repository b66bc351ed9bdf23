package bench

import "fmt"

// TransactionType selects how many inputs a benchmark transaction
// consumes and how many outputs it splits proceeds across — In1Out1,
// In2Out2 (the default), or In3Out3.
type TransactionType int

const (
	In1Out1 TransactionType = iota + 1
	In2Out2
	In3Out3
)

// OutputsCount returns the number of outputs this transaction type
// requires. The number of inputs is not fixed by it: the sender
// accumulates inputs until their total capacity covers OutputsCount
// minimum-capacity cells plus the fee.
func (t TransactionType) OutputsCount() uint64 {
	switch t {
	case In1Out1:
		return 1
	case In2Out2:
		return 2
	case In3Out3:
		return 3
	default:
		return 2
	}
}

func (t TransactionType) String() string {
	switch t {
	case In1Out1:
		return "In1Out1"
	case In2Out2:
		return "In2Out2"
	case In3Out3:
		return "In3Out3"
	default:
		return fmt.Sprintf("TransactionType(%d)", int(t))
	}
}

// MarshalJSON encodes a TransactionType as its name, matching the
// configuration file's string representation.
func (t TransactionType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON parses a TransactionType from its name.
func (t *TransactionType) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTransactionType(string(trimQuotes(data)))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTransactionType parses "In1Out1", "In2Out2", or "In3Out3".
func ParseTransactionType(s string) (TransactionType, error) {
	switch s {
	case "In1Out1":
		return In1Out1, nil
	case "In2Out2":
		return In2Out2, nil
	case "In3Out3":
		return In3Out3, nil
	default:
		return 0, fmt.Errorf("bench: unknown transaction_type %q", s)
	}
}

func trimQuotes(data []byte) []byte {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		return data[1 : len(data)-1]
	}
	return data
}
