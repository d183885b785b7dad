package cognicart

import (
	"context"
	"time"

	"github.com/cognicart/cognicart/internal/domain/progress"
)

// SearchStream runs the full pipeline and delivers per-stage progress
// events. The channel closes after the terminal event; the "done" event
// carries the assembled Result, an "error" event carries the failure
// message.
func (c *Client) SearchStream(ctx context.Context, text string) (<-chan Event, error) {
	return c.stream(ctx, text, nil)
}

// FollowUpStream is SearchStream with the previous turn's context.
func (c *Client) FollowUpStream(ctx context.Context, text string, prior *Context) (<-chan Event, error) {
	return c.stream(ctx, text, prior)
}

func (c *Client) stream(ctx context.Context, text string, prior *Context) (<-chan Event, error) {
	stream := progress.NewStream(0)
	out := make(chan Event, progress.DefaultBuffer)

	go func() {
		start := time.Now()
		op, run := "search_stream", c.pipeline.Search
		if prior != nil {
			op, run = "follow_up_stream", c.pipeline.FollowUp
		}
		_, err := run(ctx, text, toDomainContext(prior), stream)
		c.obs.observe(op, start, err)
	}()

	go func() {
		defer close(out)
		for ev := range stream.Events() {
			select {
			case out <- toEvent(ev):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
