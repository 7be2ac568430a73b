// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package curtainutils

import (
	"context"
	"fmt"

	"github.com/pdiddy/spectronaut-curtainptm/internal/container"
	"github.com/pdiddy/spectronaut-curtainptm/internal/convert"
	"github.com/pdiddy/spectronaut-curtainptm/internal/proc"
	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// New builds the converter selected by cfg. Any failure to reach
// curtainutils wraps convert.ErrUnavailable.
func New(ctx context.Context, cfg types.BackendConfig, exec proc.Executor, streams Streams) (convert.Converter, error) {
	switch cfg.Kind {
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx, exec)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, convert.ErrUnavailable)
		}
		c, err := NewContainer(ctx, rt, cfg.Image, streams)
		if err != nil {
			return nil, err
		}
		return c, nil
	case types.BackendLocal, "":
		l, err := NewLocal(ctx, exec, cfg.Python, streams)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, cfg.Validate()
	}
}
