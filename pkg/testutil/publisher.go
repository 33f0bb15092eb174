package testutil

import (
	"context"

	"github.com/stakepoint-labs/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
	StopFunc    func(context.Context) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	if m.StopFunc != nil {
		return m.StopFunc(ctx)
	}

	return nil
}
