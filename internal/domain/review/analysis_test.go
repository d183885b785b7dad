package review

import "testing"

func TestNewSentimentSumsTo100(t *testing.T) {
	tests := []struct {
		name                        string
		positive, neutral, negative int
	}{
		{"exact", 72, 18, 10},
		{"over 100", 80, 40, 20},
		{"under 100", 10, 5, 5},
		{"negative clamped", -10, 50, 50},
		{"single value", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSentiment(tt.positive, tt.neutral, tt.negative)
			sum := s.PositivePct() + s.NeutralPct() + s.NegativePct()
			if sum != 100 {
				t.Errorf("sum = %d, want 100 (got %d/%d/%d)",
					sum, s.PositivePct(), s.NeutralPct(), s.NegativePct())
			}
		})
	}
}

func TestNewSentimentExactPassthrough(t *testing.T) {
	s := NewSentiment(72, 18, 10)
	if s.PositivePct() != 72 || s.NeutralPct() != 18 || s.NegativePct() != 10 {
		t.Errorf("got %d/%d/%d, want 72/18/10",
			s.PositivePct(), s.NeutralPct(), s.NegativePct())
	}
}

func TestNewSentimentAllZero(t *testing.T) {
	s := NewSentiment(0, 0, 0)
	if s.NeutralPct() != 100 {
		t.Errorf("all-zero input should be fully neutral, got %d/%d/%d",
			s.PositivePct(), s.NeutralPct(), s.NegativePct())
	}
}

func TestNewAnalysisCapsLists(t *testing.T) {
	praises := []string{"a", "b", "c", "d", "e", "f", "g"}
	a := New(NewSentiment(70, 20, 10), praises, []string{"x"}, nil, "fine")

	if len(a.Praises()) != MaxListItems {
		t.Errorf("praises = %d, want %d", len(a.Praises()), MaxListItems)
	}
	if !a.Available() {
		t.Error("constructed analysis should be available")
	}
}

func TestUnavailable(t *testing.T) {
	a := Unavailable()
	if a.Available() {
		t.Error("unavailable analysis must report Available() == false")
	}
	if a.Sentiment().NeutralPct() != 100 {
		t.Errorf("unavailable sentiment should be fully neutral, got %d",
			a.Sentiment().NeutralPct())
	}
	if a.Summary() == "" {
		t.Error("unavailable analysis still carries a summary line")
	}
}
