package review

// MaxListItems caps praises and complaints per analysis.
const MaxListItems = 5

// Sentiment is a percentage breakdown guaranteed to sum to 100.
type Sentiment struct {
	positivePct int
	neutralPct  int
	negativePct int
}

// NewSentiment normalizes raw percentages so they sum to 100. Negative
// inputs are clamped to zero; an all-zero input yields fully neutral.
func NewSentiment(positive, neutral, negative int) Sentiment {
	if positive < 0 {
		positive = 0
	}
	if neutral < 0 {
		neutral = 0
	}
	if negative < 0 {
		negative = 0
	}
	total := positive + neutral + negative
	if total == 0 {
		return Sentiment{neutralPct: 100}
	}
	if total != 100 {
		p := positive * 100 / total
		n := neutral * 100 / total
		// Remainder goes to negative so the invariant holds exactly.
		return Sentiment{positivePct: p, neutralPct: n, negativePct: 100 - p - n}
	}
	return Sentiment{positivePct: positive, neutralPct: neutral, negativePct: negative}
}

// PositivePct returns the positive share.
func (s Sentiment) PositivePct() int { return s.positivePct }

// NeutralPct returns the neutral share.
func (s Sentiment) NeutralPct() int { return s.neutralPct }

// NegativePct returns the negative share.
func (s Sentiment) NegativePct() int { return s.negativePct }

// Analysis is a per-product review digest. Ephemeral; recomputed per
// request unless served from cache.
type Analysis struct {
	sentiment  Sentiment
	praises    []string
	complaints []string
	redFlags   []string
	summary    string
	available  bool
}

// New creates a review analysis, capping list lengths.
func New(sentiment Sentiment, praises, complaints, redFlags []string, summary string) Analysis {
	return Analysis{
		sentiment:  sentiment,
		praises:    cap5(praises),
		complaints: cap5(complaints),
		redFlags:   redFlags,
		summary:    summary,
		available:  true,
	}
}

// Unavailable returns the neutral default used when summarization fails.
// Review analysis is enrichment, never blocking.
func Unavailable() Analysis {
	return Analysis{
		sentiment: NewSentiment(0, 100, 0),
		summary:   "no analysis available",
	}
}

// Sentiment returns the normalized sentiment breakdown.
func (a *Analysis) Sentiment() Sentiment { return a.sentiment }

// Praises returns up to 5 common praises.
func (a *Analysis) Praises() []string { return a.praises }

// Complaints returns up to 5 common complaints.
func (a *Analysis) Complaints() []string { return a.complaints }

// RedFlags returns serious issues worth surfacing, if any.
func (a *Analysis) RedFlags() []string { return a.redFlags }

// Summary returns the short narrative summary.
func (a *Analysis) Summary() string { return a.summary }

// Available reports whether a real analysis was produced (false for the
// neutral default).
func (a *Analysis) Available() bool { return a.available }

func cap5(in []string) []string {
	if len(in) > MaxListItems {
		return in[:MaxListItems]
	}
	return in
}
