package version

import "testing"

func TestCalculateBuildID(t *testing.T) {
	defer func() { BuildDate = "" }()

	BuildDate = "2004-03-15"
	id, err := CalculateBuildID()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id != 1 {
		t.Errorf("Expected build 1 one day after epoch, got %d", id)
	}
}

func TestCalculateBuildIDErrors(t *testing.T) {
	defer func() { BuildDate = "" }()

	BuildDate = ""
	if _, err := CalculateBuildID(); err == nil {
		t.Error("Empty BuildDate must error")
	}

	BuildDate = "not-a-date"
	if _, err := CalculateBuildID(); err == nil {
		t.Error("Malformed BuildDate must error")
	}

	BuildDate = "1999-01-01"
	if _, err := CalculateBuildID(); err == nil {
		t.Error("BuildDate before epoch must error")
	}
}

func TestInfoNeverPanics(t *testing.T) {
	defer func() { BuildDate = "" }()

	BuildDate = ""
	info := Info()
	if info.Calculated {
		t.Error("Info without BuildDate must not be calculated")
	}
	if String() == "" {
		t.Error("String must always return something")
	}
}
