package types

import (
	"encoding/json"
	"testing"
)

func TestTransaction_MarshalJSON_EmptySlicesNotNull(t *testing.T) {
	tx := Transaction{
		Version: 0,
		Inputs:  []CellInput{{PreviousOutput: OutPoint{TxHash: Hash{0x01}, Index: 0}}},
		Outputs: []CellOutput{{Capacity: Uint64(6_100_000_000), Lock: Script{HashType: HashTypeType}}},
	}
	data, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	for _, field := range []string{"header_deps", "outputs_data", "witnesses", "cell_deps"} {
		if string(raw[field]) != "[]" {
			t.Errorf("field %q should marshal as [], got %s", field, raw[field])
		}
	}
}

func TestCellbaseMaturity(t *testing.T) {
	if IsCellbaseMature(100, 50, DefaultCellbaseMaturityWindow) {
		t.Error("cellbase should not yet be mature")
	}
	if !IsCellbaseMature(50+DefaultCellbaseMaturityWindow+1, 50, DefaultCellbaseMaturityWindow) {
		t.Error("cellbase should be mature past the maturity window")
	}
}
