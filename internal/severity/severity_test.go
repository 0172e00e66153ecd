package severity

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"Critical", Critical},
		{"High", High},
		{"  Medium  ", Medium},
		{"Low", Low},
		{"Info\n", Info},
		{"critical", Unranked},
		{"HIGH", Unranked},
		{"", Unranked},
		{"Severe", Unranked},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Parse(tt.in); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRankFollowsOrder(t *testing.T) {
	for i, level := range Order {
		if level.Rank() != i {
			t.Errorf("%s rank = %d, want %d", level, level.Rank(), i)
		}
		if !level.IsRanked() {
			t.Errorf("%s should be ranked", level)
		}
	}

	if Unranked.Rank() != math.MaxInt {
		t.Errorf("unranked rank = %d, want MaxInt", Unranked.Rank())
	}
	if Unranked.Rank() <= Info.Rank() {
		t.Error("unranked must sort after Info")
	}
	if Unranked.IsRanked() {
		t.Error("Unranked should not be ranked")
	}
}

func TestWeights(t *testing.T) {
	want := map[Level]int{Critical: 100, High: 70, Medium: 40, Low: 15, Info: 5, Unranked: 0, Level(-1): 0, Level(42): 0}
	for level, w := range want {
		if level.Weight() != w {
			t.Errorf("%v weight = %d, want %d", level, level.Weight(), w)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, level := range Order {
		if Parse(level.String()) != level {
			t.Errorf("Parse(%q) did not round-trip", level.String())
		}
	}
	if Unranked.String() != "" {
		t.Errorf("Unranked.String() = %q, want empty", Unranked.String())
	}
}

func TestDefinitionsCoverOrder(t *testing.T) {
	if len(Definitions) != len(Order) {
		t.Fatalf("expected %d definitions, got %d", len(Order), len(Definitions))
	}
	for i, def := range Definitions {
		if def.Level != Order[i] {
			t.Errorf("definition %d is %s, want %s", i, def.Level, Order[i])
		}
		if def.Text == "" {
			t.Errorf("definition for %s is empty", def.Level)
		}
	}
}
