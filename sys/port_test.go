package sys

import "testing"

func TestPortKey(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected string
	}{
		{"int", 8080, "8080"},
		{"int64", int64(9999), "9999"},
		{"uint16", uint16(7000), "7000"},
		{"string", "8080", "8080"},
		{"padded string", "  9999 ", "9999"},
		{"named port", "shell", "shell"},
		{"whole float", float64(3000), "3000"},
		{"fractional float", 3.5, "3.5"},
		{"negative int", -1, "-1"},
		{"fallback", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PortKey(tt.in); got != tt.expected {
				t.Errorf("PortKey(%v) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestPortKey_NumericAndStringAgree(t *testing.T) {
	if PortKey(8080) != PortKey("8080") {
		t.Error("numeric and string forms of the same port must share a key")
	}
}
