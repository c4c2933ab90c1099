package membudget

import (
	"math"
	"strings"
	"testing"
)

func TestBudgetBasic(t *testing.T) {
	budget := New(Config{
		TotalBytes: 1000,
		Source:     BudgetSourceCLI,
	})

	if budget.Total() != 1000 {
		t.Errorf("Total() = %d, want 1000", budget.Total())
	}
	if budget.Source() != BudgetSourceCLI {
		t.Errorf("Source() = %s, want %s", budget.Source(), BudgetSourceCLI)
	}
	if budget.Available() != 1000 {
		t.Errorf("Available() = %d, want 1000", budget.Available())
	}
}

func TestTryReserveAndRelease(t *testing.T) {
	budget := New(Config{TotalBytes: 1000})

	if !budget.TryReserve(600) {
		t.Fatal("TryReserve(600) should succeed")
	}
	if budget.TryReserve(500) {
		t.Fatal("TryReserve(500) should fail with 400 available")
	}
	if budget.InUse() != 600 {
		t.Errorf("InUse() = %d, want 600", budget.InUse())
	}

	budget.Release(600)
	if budget.InUse() != 0 {
		t.Errorf("InUse() after release = %d, want 0", budget.InUse())
	}

	// Over-release caps at zero.
	budget.Release(10)
	if budget.InUse() != 0 {
		t.Errorf("InUse() after over-release = %d, want 0", budget.InUse())
	}
}

func TestTryReserveHugeRequest(t *testing.T) {
	budget := New(Config{TotalBytes: 1000})
	if !budget.TryReserve(10) {
		t.Fatal("TryReserve(10) should succeed")
	}
	// current + n would wrap to 9.
	if budget.TryReserve(math.MaxUint64) {
		t.Fatal("TryReserve(MaxUint64) should fail")
	}
	if budget.InUse() != 10 {
		t.Errorf("InUse() = %d, want 10", budget.InUse())
	}
}

func TestHold(t *testing.T) {
	budget := New(Config{TotalBytes: 100})

	release, ok := budget.Hold(80)
	if !ok {
		t.Fatal("Hold(80) should succeed")
	}
	if _, ok := budget.Hold(30); ok {
		t.Fatal("Hold(30) should fail while 80 are held")
	}
	if budget.InUse() != 80 {
		t.Errorf("failed Hold changed InUse to %d", budget.InUse())
	}

	release()
	if budget.Available() != 100 {
		t.Errorf("Available() after release = %d, want 100", budget.Available())
	}
}

func TestNewFromSystemRAM(t *testing.T) {
	budget := NewFromSystemRAM()

	if budget.Total() == 0 {
		t.Error("budget from system RAM should not be zero")
	}
	if budget.Source() != BudgetSourceAuto50Pct && budget.Source() != BudgetSourceDefault {
		t.Errorf("Source = %s, want auto-50pct or default", budget.Source())
	}
}

func TestResolve(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		t.Setenv(EnvBudget, "2GiB")
		budget, err := Resolve("4GiB")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if budget.Total() != 4<<30 {
			t.Errorf("Total() = %d, want %d", budget.Total(), uint64(4<<30))
		}
		if budget.Source() != BudgetSourceCLI {
			t.Errorf("Source() = %s, want %s", budget.Source(), BudgetSourceCLI)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(EnvBudget, "2GiB")
		budget, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if budget.Total() != 2<<30 {
			t.Errorf("Total() = %d, want %d", budget.Total(), uint64(2<<30))
		}
		if budget.Source() != BudgetSourceEnv {
			t.Errorf("Source() = %s, want %s", budget.Source(), BudgetSourceEnv)
		}
	})

	t.Run("auto", func(t *testing.T) {
		t.Setenv(EnvBudget, "")
		budget, err := Resolve("")
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if budget.Source() != BudgetSourceAuto50Pct && budget.Source() != BudgetSourceDefault {
			t.Errorf("Source() = %s, want auto-50pct or default", budget.Source())
		}
	})

	t.Run("invalid_flag", func(t *testing.T) {
		_, err := Resolve("lots")
		if err == nil || !strings.Contains(err.Error(), "--mem-budget") {
			t.Errorf("expected --mem-budget error, got %v", err)
		}
	})

	t.Run("invalid_env", func(t *testing.T) {
		t.Setenv(EnvBudget, "badvalue")
		_, err := Resolve("")
		if err == nil || !strings.Contains(err.Error(), EnvBudget) {
			t.Errorf("expected %s error, got %v", EnvBudget, err)
		}
	})
}

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		input   string
		want    uint64
		wantErr bool
	}{
		{"1024", 1024, false},
		{"100B", 100, false},
		{"1KB", 1000, false},
		{"1KiB", 1024, false},
		{"1K", 1024, false},
		{"1MB", 1000000, false},
		{"1MiB", 1024 * 1024, false},
		{"1M", 1024 * 1024, false},
		{"1GB", 1000000000, false},
		{"1GiB", 1024 * 1024 * 1024, false},
		{"4GiB", 4 * 1024 * 1024 * 1024, false},
		{"0.5GiB", 512 * 1024 * 1024, false},
		{"", 0, true},
		{"XYZ", 0, true},
		{"100XB", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHumanSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHumanSize(%q) should error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHumanSize(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseHumanSize(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
