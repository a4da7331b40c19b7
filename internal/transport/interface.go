package transport

import "context"

// Client is the subset of the backend API the conversation service
// depends on; it is easy to mock in tests.
type Client interface {
	Send(ctx context.Context, message string, history [][2]string) (*Reply, error)
}
