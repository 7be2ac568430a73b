// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLevels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(&buf, false)
	slog.Debug("hidden detail")
	slog.Warn("visible warning", "backend", "local")
	assert.NotContains(t, buf.String(), "hidden detail")
	assert.Contains(t, buf.String(), "visible warning")
	assert.Contains(t, buf.String(), "backend=local")

	buf.Reset()
	logger := Init(&buf, true)
	logger.Debug("debug enabled")
	assert.Contains(t, buf.String(), "debug enabled")
	assert.NotContains(t, buf.String(), "\x1b[", "non-terminal output is not colored")
}
