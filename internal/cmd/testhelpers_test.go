package cmd

import (
	"context"
	"io"

	"github.com/salmonumbrella/linear-cli/internal/iocontext"
)

// withTestIO routes command stdout to w and discards stderr.
func withTestIO(ctx context.Context, w io.Writer) context.Context {
	return iocontext.WithIO(ctx, w, io.Discard)
}
