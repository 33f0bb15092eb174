package pubsub

import "context"

// Pack is one message on a topic. Key determines the partition.
type Pack struct {
	Key []byte
	Msg []byte
}

type Publisher interface {
	Publish(context.Context, string, *Pack) error
	Stop(ctx context.Context) error
}
