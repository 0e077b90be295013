// Package dlq mirrors undecodable queue payloads to a JetStream stream for
// offline inspection. The pipeline's contract is still log-and-drop; the
// mirror is an optional, disabled-by-default side channel.
package dlq

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "WORKERS_DLQ"
	subjectPrefix = "workers.dlq."
)

// Mirror publishes dropped payloads to JetStream.
type Mirror struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// New connects to NATS and ensures the DLQ stream exists.
func New(ctx context.Context, natsURL string) (*Mirror, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("initializing jetstream: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{subjectPrefix + ">"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensuring dlq stream: %w", err)
	}

	return &Mirror{nc: nc, js: js}, nil
}

// Publish mirrors one dropped payload under the worker's subject.
func (m *Mirror) Publish(ctx context.Context, workerType string, payload []byte) error {
	if _, err := m.js.Publish(ctx, subjectPrefix+workerType, payload); err != nil {
		return fmt.Errorf("publishing to dlq: %w", err)
	}
	return nil
}

// Close drains the connection.
func (m *Mirror) Close() {
	m.nc.Close()
}
