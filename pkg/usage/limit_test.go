package usage

import (
	"errors"
	"testing"
	"time"
)

func TestNewLimit_RejectsZeroCount(t *testing.T) {
	_, err := NewLimit(time.Second, 0)
	if !errors.Is(err, ErrZeroCount) {
		t.Fatalf("Expected ErrZeroCount, got %v", err)
	}
}

func TestNewLimit_ZeroWindowIsLegal(t *testing.T) {
	limit, err := NewLimit(0, 1)
	if err != nil {
		t.Fatalf("Expected zero window to be legal, got %v", err)
	}
	if limit.Window() != 0 || limit.Count() != 1 {
		t.Errorf("Unexpected limit %v", limit)
	}
}

func TestMustLimit_PanicsOnZeroCount(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected MustLimit to panic on zero count")
		}
	}()
	MustLimit(time.Second, 0)
}

func TestLimit_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b Limit
		want int
	}{
		{"equal", MustLimit(time.Second, 5), MustLimit(time.Second, 5), 0},
		{"shorter window first", MustLimit(time.Second, 5), MustLimit(time.Minute, 1), -1},
		{"longer window last", MustLimit(time.Minute, 1), MustLimit(time.Second, 5), 1},
		{"window ties broken by count", MustLimit(time.Second, 1), MustLimit(time.Second, 2), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestLimit_ValueSemantics(t *testing.T) {
	a := MustLimit(30*time.Second, 5)
	b := MustLimit(30*time.Second, 5)

	if a != b {
		t.Error("Expected equal limits to compare equal with ==")
	}

	if a.String() != "5 per 30s" {
		t.Errorf("Unexpected String(): %q", a.String())
	}
}
