// Package stream abstracts the request intake transport behind a small
// consumer interface, with Redis streams as the only provider today.
package stream

import "context"

type Consumer interface {
	Setup(ctx context.Context) error
	Start(ctx context.Context) error
	Stop() error
}
