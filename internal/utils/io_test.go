package utils

import (
	"strings"
	"testing"
)

func TestReadAllLimited(t *testing.T) {
	data, err := readAllLimited(strings.NewReader("key material"), 64)
	if err != nil {
		t.Fatalf("readAllLimited failed: %v", err)
	}
	if string(data) != "key material" {
		t.Errorf("Expected input back, got %q", data)
	}

	if _, err := readAllLimited(strings.NewReader(""), 64); err == nil {
		t.Error("Expected error for empty input")
	}

	if _, err := readAllLimited(strings.NewReader(strings.Repeat("x", 65)), 64); err == nil {
		t.Error("Expected error for input over the limit")
	}
}
