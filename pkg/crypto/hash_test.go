package crypto

import (
	"testing"

	"github.com/ckb-tps-bench/bench/pkg/types"
)

func TestHash_Deterministic(t *testing.T) {
	data := []byte("deterministic test input")
	h1 := Hash(data)
	h2 := Hash(data)
	if h1 != h2 {
		t.Errorf("Hash is not deterministic: %x != %x", h1, h2)
	}
}

func TestHash_DifferentInputs(t *testing.T) {
	h1 := Hash([]byte("input A"))
	h2 := Hash([]byte("input B"))
	if h1 == h2 {
		t.Error("different inputs produced the same hash")
	}
}

func TestHash_NotZero(t *testing.T) {
	if Hash([]byte("anything")) == (types.Hash{}) {
		t.Error("Hash of non-empty input should not be zero")
	}
}

func TestHashConcat_EqualsSequentialWrite(t *testing.T) {
	a := []byte("left-part")
	b := []byte("right-part")

	got := HashConcat(a, b)

	h := NewHasher()
	h.Write(a)
	h.Write(b)
	var want types.Hash
	h.Sum(want[:0])

	if got != want {
		t.Errorf("HashConcat = %x, want %x", got, want)
	}
}

func TestHashConcat_OrderMatters(t *testing.T) {
	a := []byte("left")
	b := []byte("right")
	if HashConcat(a, b) == HashConcat(b, a) {
		t.Error("HashConcat(a,b) should differ from HashConcat(b,a)")
	}
}

func TestHashConcat_Deterministic(t *testing.T) {
	a := []byte("left")
	b := []byte("right")
	if HashConcat(a, b) != HashConcat(a, b) {
		t.Error("HashConcat is not deterministic")
	}
}
