package convo

import "github.com/cognicart/cognicart/internal/domain/query"

// Context is a caller-supplied snapshot of the previous turn. The
// pipeline only reads it; the caller-facing layer produces a fresh one
// from its own history each turn.
type Context struct {
	priorQuery      string
	priorCriteria   query.Criteria
	hasCriteria     bool
	priorProductIDs []string
}

// New creates a conversation context. priorCriteria may be nil when no
// structured criteria survived the previous turn.
func New(priorQuery string, priorCriteria *query.Criteria, priorProductIDs []string) Context {
	c := Context{priorQuery: priorQuery, priorProductIDs: priorProductIDs}
	if priorCriteria != nil {
		c.priorCriteria = *priorCriteria
		c.hasCriteria = true
	}
	return c
}

// PriorQuery returns the previous turn's free text.
func (c *Context) PriorQuery() string { return c.priorQuery }

// PriorCriteria returns the previous structured criteria and whether
// one is present.
func (c *Context) PriorCriteria() (query.Criteria, bool) {
	return c.priorCriteria, c.hasCriteria
}

// PriorProductIDs returns ids from the previous result set.
func (c *Context) PriorProductIDs() []string { return c.priorProductIDs }

// IsZero reports whether the context carries no prior turn at all.
func (c *Context) IsZero() bool {
	return c.priorQuery == "" && !c.hasCriteria && len(c.priorProductIDs) == 0
}
