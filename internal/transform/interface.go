package transform

import "context"

// Transformer is a stateless text-in/text-out service; all context is supplied per call
type Transformer interface {
	Invoke(ctx context.Context, system, user string, temperature float32) (string, error)
}
