package types

import (
	"encoding/json"
	"testing"
)

func TestScriptHashType_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		ht   ScriptHashType
		want string
	}{
		{HashTypeData, "data"},
		{HashTypeType, "type"},
		{HashTypeData1, "data1"},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.ht)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", tt.ht, err)
		}
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if s != tt.want {
			t.Errorf("got %q, want %q", s, tt.want)
		}

		var got ScriptHashType
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal into ScriptHashType: %v", err)
		}
		if got != tt.ht {
			t.Errorf("round-trip mismatch: got %v, want %v", got, tt.ht)
		}
	}
}

func TestScript_Equal(t *testing.T) {
	a := Script{CodeHash: Hash{0x01}, HashType: HashTypeType, Args: HexBytes{1, 2, 3}}
	b := Script{CodeHash: Hash{0x01}, HashType: HashTypeType, Args: HexBytes{1, 2, 3}}
	c := Script{CodeHash: Hash{0x02}, HashType: HashTypeType, Args: HexBytes{1, 2, 3}}

	if !a.Equal(b) {
		t.Error("identical scripts should be equal")
	}
	if a.Equal(c) {
		t.Error("scripts with different code hashes should not be equal")
	}
}

func TestCellOutput_JSONRoundTrip(t *testing.T) {
	out := CellOutput{
		Capacity: Uint64(6_100_000_000),
		Lock:     Script{CodeHash: Hash{0xaa}, HashType: HashTypeType, Args: HexBytes{1, 2, 3, 4}},
	}
	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got CellOutput
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Capacity != out.Capacity || !got.Lock.Equal(out.Lock) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, out)
	}
	if got.Type != nil {
		t.Error("omitted type script should unmarshal to nil")
	}
}
