package usage

import "context"

// UnsupportedAdapter is registered for catalog providers without a public
// usage API. It fails immediately without touching the network.
type UnsupportedAdapter struct {
	Reason string
}

func (a *UnsupportedAdapter) Fetch(ctx context.Context, key string) (*Result, error) {
	return nil, errf(KindNotSupported, "%s", a.Reason)
}
