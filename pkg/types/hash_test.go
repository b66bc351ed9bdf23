package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHash_IsZero(t *testing.T) {
	var zero Hash
	if !zero.IsZero() {
		t.Error("zero-value Hash should be zero")
	}

	nonZero := Hash{0x01}
	if nonZero.IsZero() {
		t.Error("non-zero Hash should not be zero")
	}
}

func TestHash_String(t *testing.T) {
	var h Hash
	s := h.String()
	if len(s) != 66 {
		t.Errorf("String() length = %d, want 66", len(s))
	}
	if s != "0x"+strings.Repeat("0", 64) {
		t.Errorf("zero hash String() = %s, want 0x-prefixed all zeros", s)
	}

	h[0] = 0xab
	h[31] = 0xcd
	s = h.String()
	if !strings.HasPrefix(s, "0xab") {
		t.Errorf("String() should start with '0xab', got %s", s[:4])
	}
	if !strings.HasSuffix(s, "cd") {
		t.Errorf("String() should end with 'cd', got %s", s[len(s)-2:])
	}
}

func TestHash_JSONRoundTrip(t *testing.T) {
	h := Hash{0xab, 0xcd}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal into string: %v", err)
	}
	if !strings.HasPrefix(s, "0x") {
		t.Errorf("hash should encode with 0x prefix, got %q", s)
	}

	var got Hash
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != h {
		t.Errorf("round-trip mismatch: got %v, want %v", got, h)
	}
}

func TestHash_Bytes(t *testing.T) {
	h := Hash{0x01, 0x02, 0x03}
	b := h.Bytes()

	if len(b) != HashSize {
		t.Errorf("Bytes() length = %d, want %d", len(b), HashSize)
	}
	if b[0] != 0x01 || b[1] != 0x02 || b[2] != 0x03 {
		t.Errorf("Bytes() content mismatch")
	}

	// Ensure it's a copy, not a reference
	b[0] = 0xFF
	if h[0] == 0xFF {
		t.Error("Bytes() should return a copy, not a reference")
	}
}

func TestHexToHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:  "valid 0x-prefixed 64 hex chars",
			input: "0xaf1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		},
		{
			name:  "valid bare 64 hex chars",
			input: "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262",
		},
		{
			name:  "all zeros",
			input: "0x" + strings.Repeat("0", 64),
		},
		{
			name:    "too short",
			input:   "0xabcd",
			wantErr: true,
		},
		{
			name:    "too long",
			input:   "0x" + strings.Repeat("a", 66),
			wantErr: true,
		},
		{
			name:    "invalid hex character",
			input:   "0x" + strings.Repeat("g", 64),
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := HexToHash(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("HexToHash(%q) should have returned error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("HexToHash(%q) unexpected error: %v", tt.input, err)
			}
			want := tt.input
			if !strings.HasPrefix(want, "0x") {
				want = "0x" + want
			}
			if h.String() != want {
				t.Errorf("roundtrip: got %s, want %s", h.String(), want)
			}
		})
	}
}

func TestUint64_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		v    Uint64
		want string
	}{
		{0, `"0x0"`},
		{1, `"0x1"`},
		{6_100_000_000, `"0x16b969d00"`},
	}
	for _, tt := range tests {
		data, err := json.Marshal(tt.v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", tt.v, err)
		}
		if string(data) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.v, data, tt.want)
		}
		var got Uint64
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if got != tt.v {
			t.Errorf("round-trip mismatch: got %v, want %v", got, tt.v)
		}
	}
}

func TestParseUint64(t *testing.T) {
	v, err := ParseUint64("0x2a")
	if err != nil {
		t.Fatalf("ParseUint64: %v", err)
	}
	if v != 42 {
		t.Errorf("got %d, want 42", v)
	}

	v, err = ParseUint64("42")
	if err != nil {
		t.Fatalf("ParseUint64: %v", err)
	}
	if v != 42 {
		t.Errorf("got %d, want 42", v)
	}
}

func TestHexBytes_JSONRoundTrip(t *testing.T) {
	b := HexBytes{0xde, 0xad, 0xbe, 0xef}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"0xdeadbeef"` {
		t.Errorf("Marshal = %s, want \"0xdeadbeef\"", data)
	}

	var got HexBytes
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if string(got) != string(b) {
		t.Errorf("round-trip mismatch: got %x, want %x", got, b)
	}
}

func TestHexBytes_EmptyUnmarshal(t *testing.T) {
	var b HexBytes
	if err := json.Unmarshal([]byte(`"0x"`), &b); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if b != nil {
		t.Errorf("empty hex bytes should unmarshal to nil, got %x", b)
	}
}
