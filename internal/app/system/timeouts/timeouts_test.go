package timeouts_test

import (
	"testing"
	"time"

	"github.com/dalemusser/subtracker/internal/app/system/timeouts"
)

func TestDefaults(t *testing.T) {
	timeouts.Reset()

	if got := timeouts.Ping(); got != timeouts.DefaultPing {
		t.Errorf("Ping() = %v, want %v", got, timeouts.DefaultPing)
	}
	if got := timeouts.Short(); got != timeouts.DefaultShort {
		t.Errorf("Short() = %v, want %v", got, timeouts.DefaultShort)
	}
	if got := timeouts.Medium(); got != timeouts.DefaultMedium {
		t.Errorf("Medium() = %v, want %v", got, timeouts.DefaultMedium)
	}
}

func TestConfigure_IgnoresZeroValues(t *testing.T) {
	timeouts.Reset()
	defer timeouts.Reset()

	timeouts.Configure(timeouts.Config{Short: 7 * time.Second})

	cur := timeouts.Current()
	if cur.Short != 7*time.Second {
		t.Errorf("Short: got %v, want 7s", cur.Short)
	}
	if cur.Ping != timeouts.DefaultPing {
		t.Errorf("Ping changed: got %v", cur.Ping)
	}
	if cur.Medium != timeouts.DefaultMedium {
		t.Errorf("Medium changed: got %v", cur.Medium)
	}
}
