package regime

import (
	"math/rand"
	"testing"

	"github.com/opensource-finance/shrike/internal/domain"
)

func fourPhase(t *testing.T) *Schedule {
	t.Helper()
	s, err := NewSchedule(map[int]Params{
		0:    {ActiveTypologies: []string{"A"}},
		3000: {ActiveTypologies: []string{"B"}},
		6000: {ActiveTypologies: []string{"C"}},
		9000: {ActiveTypologies: []string{"D"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestCurrent(t *testing.T) {
	s := fourPhase(t)

	cases := []struct {
		minute int
		want   string
	}{
		{0, "A"},
		{2999, "A"},
		{3000, "B"},
		{5999, "B"},
		{6000, "C"},
		{8999, "C"},
		{9000, "D"},
		{100000, "D"},
	}
	for _, c := range cases {
		got := s.Current(c.minute)
		if got.ActiveTypologies[0] != c.want {
			t.Errorf("minute %d: expected regime %s, got %s", c.minute, c.want, got.ActiveTypologies[0])
		}
	}
}

func TestNewScheduleValidation(t *testing.T) {
	t.Run("MissingZeroKey", func(t *testing.T) {
		_, err := NewSchedule(map[int]Params{100: {ActiveTypologies: []string{"A"}}})
		if err == nil {
			t.Error("expected error for schedule without minute-0 regime")
		}
	})

	t.Run("EmptyTypologySet", func(t *testing.T) {
		_, err := NewSchedule(map[int]Params{0: {}})
		if err == nil {
			t.Error("expected error for regime with no typologies")
		}
	})
}

func TestSeasonalProbability(t *testing.T) {
	// sin(0) = 0, so the seasonal part at t=0 is exactly the base rate.
	if got := SeasonalProbability(0, 0.01); got != 0.01 {
		t.Errorf("expected 0.01 at t=0, got %v", got)
	}
}

func TestFraudProbabilityNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20000; i++ {
		p := FraudProbability(i, 0.01, rng)
		if p < 0 {
			t.Fatalf("negative probability %v at t=%d", p, i)
		}
	}
}

func TestFraudProbabilityZeroBase(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		if p := FraudProbability(i, 0, rng); p != 0 {
			t.Fatalf("expected 0 probability at zero base rate, got %v", p)
		}
	}
}

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule()

	p := s.Current(0)
	if len(p.ActiveTypologies) != 2 {
		t.Errorf("baseline phase: expected 2 typologies, got %d", len(p.ActiveTypologies))
	}

	late := s.Current(9500)
	found := false
	for _, ty := range late.ActiveTypologies {
		if ty == domain.TypologyVPAMimicry {
			found = true
		}
	}
	if !found {
		t.Error("adaptive phase should include VPA mimicry")
	}
	if late.AmountMultiplierHigh >= s.Current(6000).AmountMultiplierHigh {
		t.Error("adaptive phase should use lower amount multipliers than the peak phase")
	}
}
