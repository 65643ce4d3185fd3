package migrate

import "testing"

func TestRunEmptyDSN(t *testing.T) {
	if err := Run("", "up"); err == nil {
		t.Fatal("Run with empty DSN should return error")
	}
}

func TestRunInvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "sideways", "UP", "Down"} {
		if err := Run("postgres://localhost/jorvik", direction); err == nil {
			t.Errorf("Run with direction %q should return error", direction)
		}
	}
}
