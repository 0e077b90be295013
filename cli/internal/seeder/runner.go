package seeder

import (
	"log"
	"time"

	"github.com/pulsegraph-io/pulsegraph-stack/cli/internal/client"
)

// Options configures a seeding run.
type Options struct {
	Count      int
	EventTypes []string
	Interval   time.Duration
	Seed       int64
}

// Runner generates events and submits them through the ingest API.
type Runner struct {
	client    *client.Client
	generator *Generator
	opts      Options
}

// NewRunner builds a runner. A zero seed is replaced with the current time so
// repeated runs produce different events.
func NewRunner(c *client.Client, opts Options) *Runner {
	if opts.Count <= 0 {
		opts.Count = 10
	}
	if len(opts.EventTypes) == 0 {
		opts.EventTypes = []string{"lead_scoring", "blockchain_events", "chat_analysis"}
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Runner{
		client:    c,
		generator: New(opts.Seed),
		opts:      opts,
	}
}

// Run sends the configured number of events, cycling through the event types.
// It returns the number of events accepted by the API.
func (r *Runner) Run() (int, error) {
	log.Printf("Seeding %d events across %v", r.opts.Count, r.opts.EventTypes)

	sent := 0
	for i := 0; i < r.opts.Count; i++ {
		eventType := r.opts.EventTypes[i%len(r.opts.EventTypes)]

		data, err := r.generator.Generate(eventType)
		if err != nil {
			return sent, err
		}

		ack, err := r.client.SendEvent(eventType, data)
		if err != nil {
			log.Printf("Failed to send %s event: %v", eventType, err)
			continue
		}
		sent++

		if sent%10 == 0 || sent == r.opts.Count {
			log.Printf("Progress: %d/%d events queued (last: %s)", sent, r.opts.Count, ack.EventID)
		}

		if r.opts.Interval > 0 && i < r.opts.Count-1 {
			time.Sleep(r.opts.Interval)
		}
	}

	log.Printf("Seeding complete: %d/%d events queued", sent, r.opts.Count)
	return sent, nil
}
