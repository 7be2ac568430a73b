// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package curtainutils

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/samber/lo"

	"github.com/pdiddy/spectronaut-curtainptm/internal/container"
	"github.com/pdiddy/spectronaut-curtainptm/internal/convert"
	"github.com/pdiddy/spectronaut-curtainptm/pkg/types"
)

// imagePython is the interpreter name inside the curtainutils image.
const imagePython = "python"

// Container runs the bridge inside a container image that has curtainutils
// installed. Host directories holding the input, FASTA and output files are
// bind-mounted at identical paths so the library sees the same paths.
type Container struct {
	runtime container.Runtime
	image   string
	streams Streams
}

// NewContainer returns a converter backed by rt and image. It checks that
// the image exists and can import curtainutils; otherwise the returned error
// wraps convert.ErrUnavailable.
func NewContainer(ctx context.Context, rt container.Runtime, image string, streams Streams) (*Container, error) {
	if image == "" {
		image = types.DefaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("%v: %w", err, convert.ErrUnavailable)
	}
	err := rt.Run(ctx, container.RunSpec{
		Image: image,
		Args:  []string{imagePython, "-c", importCheckScript},
	})
	if err != nil {
		return nil, fmt.Errorf("importing curtainutils in %s: %v: %w", image, err, convert.ErrUnavailable)
	}
	slog.Debug("curtainutils available", "backend", types.BackendContainer, "runtime", rt.Name(), "image", image)
	return &Container{runtime: rt, image: image, streams: streams}, nil
}

// Convert calls process_spectronaut_ptm inside the container.
func (c *Container) Convert(ctx context.Context, req types.ConversionRequest) error {
	abs, err := absolutize(req)
	if err != nil {
		return err
	}
	stdin, err := encodePayload(abs)
	if err != nil {
		return err
	}

	mounts := mountsFor(abs)
	stderr := newStderrFilter(c.streams.Stderr)
	slog.Debug("running curtainutils bridge", "runtime", c.runtime.Name(), "image", c.image, "mounts", len(mounts))
	runErr := c.runtime.Run(ctx, container.RunSpec{
		Image:   c.image,
		Mounts:  mounts,
		Workdir: abs.OutputFolder,
		Args:    []string{imagePython, "-c", bridgeScript},
		Stdin:   stdin,
		Stdout:  c.streams.stdout(),
		Stderr:  stderr,
	})
	return stderr.finish(runErr)
}

// absolutize returns a copy of req whose file paths are absolute.
func absolutize(req types.ConversionRequest) (types.ConversionRequest, error) {
	out := req
	var err error
	if out.InputFile, err = filepath.Abs(req.InputFile); err != nil {
		return out, fmt.Errorf("resolving %s: %w", req.InputFile, err)
	}
	if out.OutputFolder, err = filepath.Abs(req.OutputFolder); err != nil {
		return out, fmt.Errorf("resolving %s: %w", req.OutputFolder, err)
	}
	if req.HasFasta() {
		if out.FastaFile, err = filepath.Abs(req.FastaFile); err != nil {
			return out, fmt.Errorf("resolving %s: %w", req.FastaFile, err)
		}
	}
	return out, nil
}

// mountsFor lists the distinct directories the library needs, sorted.
func mountsFor(req types.ConversionRequest) []container.Mount {
	dirs := []string{filepath.Dir(req.InputFile), req.OutputFolder}
	if req.HasFasta() {
		dirs = append(dirs, filepath.Dir(req.FastaFile))
	}
	dirs = lo.Uniq(dirs)
	slices.Sort(dirs)
	return lo.Map(dirs, func(d string, _ int) container.Mount {
		return container.Mount{Source: d, Target: d}
	})
}
