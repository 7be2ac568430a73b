// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package proc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOK   bool
	}{
		{"nil", nil, 0, false},
		{"plain error", errors.New("exec: not found"), 0, false},
		{"exit error", &ExitError{Code: 3}, 3, true},
		{"wrapped exit error", fmt.Errorf("running: %w", &ExitError{Code: 1}), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ExitCode(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())
}
