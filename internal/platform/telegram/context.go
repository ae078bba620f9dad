package telegram

import "context"

type ctxKey struct{}

// WithClient binds the bot client of the current session to ctx.
func WithClient(ctx context.Context, c *Client) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the bound client. A missing client or one without a
// token yields ErrNoToken.
func FromContext(ctx context.Context) (*Client, error) {
	c, ok := ctx.Value(ctxKey{}).(*Client)
	if !ok || !c.HasToken() {
		return nil, ErrNoToken
	}
	return c, nil
}

// Resolver yields the bot client to use for a call.
type Resolver interface {
	Resolve(ctx context.Context) (*Client, error)
}

type ContextResolver struct{}

func (ContextResolver) Resolve(ctx context.Context) (*Client, error) {
	return FromContext(ctx)
}

// Static always resolves to the wrapped client.
type Static struct {
	Client *Client
}

func (s Static) Resolve(context.Context) (*Client, error) {
	if !s.Client.HasToken() {
		return nil, ErrNoToken
	}
	return s.Client, nil
}
