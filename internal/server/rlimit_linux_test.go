package server

import "testing"

func TestRaiseOpenFileLimit(t *testing.T) {
	limit, err := RaiseOpenFileLimit()
	if err != nil {
		t.Fatalf("RaiseOpenFileLimit failed: %v", err)
	}
	if limit == 0 {
		t.Error("Expected a non-zero open file limit")
	}
}
