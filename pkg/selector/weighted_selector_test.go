package selector

import (
	"errors"
	"math"
	"testing"

	"Pointspin-Backend/domain"
)

// fixedSource replays a scripted sequence of draws.
type fixedSource struct {
	draws []int
	pos   int
}

func (f *fixedSource) IntN(max int) (int, error) {
	if f.pos >= len(f.draws) {
		return 0, errors.New("fixedSource exhausted")
	}
	d := f.draws[f.pos]
	f.pos++
	if d >= max {
		return max - 1, nil
	}
	return d, nil
}

func TestPick_BoundaryWalk(t *testing.T) {
	items := []Weighted[string]{
		{Item: "a", Weight: 3},
		{Item: "b", Weight: 2},
		{Item: "c", Weight: 5},
	}

	// draw is 0-based; roll = draw+1. Cumulative bounds: a=[1,3] b=[4,5] c=[6,10].
	cases := []struct {
		draw int
		want string
	}{
		{0, "a"},
		{2, "a"},
		{3, "b"},
		{4, "b"},
		{5, "c"},
		{9, "c"},
	}

	for _, tc := range cases {
		got, err := Pick(&fixedSource{draws: []int{tc.draw}}, items)
		if err != nil {
			t.Fatalf("draw %d: unexpected error: %v", tc.draw, err)
		}
		if got != tc.want {
			t.Errorf("draw %d: got %q, want %q", tc.draw, got, tc.want)
		}
	}
}

func TestPick_InvalidConfigurations(t *testing.T) {
	cases := []struct {
		name  string
		items []Weighted[string]
	}{
		{"empty", nil},
		{"zero total", []Weighted[string]{{Item: "a", Weight: 0}}},
		{"negative total", []Weighted[string]{{Item: "a", Weight: -5}, {Item: "b", Weight: 3}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Pick[string](&fixedSource{draws: []int{0}}, tc.items)
			if !errors.Is(err, domain.ErrInvalidWeightConfiguration) {
				t.Errorf("got %v, want ErrInvalidWeightConfiguration", err)
			}
		})
	}
}

func TestPick_AlwaysReturnsMember(t *testing.T) {
	items := []Weighted[string]{
		{Item: "common", Weight: 8000},
		{Item: "rare", Weight: 1700},
		{Item: "epic", Weight: 280},
		{Item: "legendary", Weight: 20},
	}
	members := map[string]bool{"common": true, "rare": true, "epic": true, "legendary": true}

	src := NewCryptoSource()
	for i := 0; i < 1000; i++ {
		got, err := Pick(src, items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !members[got] {
			t.Fatalf("picked %q, not a member of the input set", got)
		}
	}
}

func TestPick_FrequencyConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical test in short mode")
	}

	items := []Weighted[string]{
		{Item: "common", Weight: 80},
		{Item: "rare", Weight: 20},
	}

	const trials = 20000
	counts := map[string]int{}
	src := NewCryptoSource()
	for i := 0; i < trials; i++ {
		got, err := Pick(src, items)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		counts[got]++
	}

	gotRatio := float64(counts["common"]) / float64(trials)
	if math.Abs(gotRatio-0.8) > 0.02 {
		t.Errorf("common frequency %.3f, want 0.800 ± 0.020", gotRatio)
	}
}
