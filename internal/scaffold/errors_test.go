package scaffold

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bootstrap", err: &BootstrapError{Path: "templates", Err: os.ErrNotExist}, want: true},
		{name: "write", err: &WriteError{Op: "write", Path: "a", Err: os.ErrPermission}, want: true},
		{name: "wrapped write", err: fmt.Errorf("generate: %w", &WriteError{Op: "mkdir", Path: "a", Err: os.ErrPermission}), want: true},
		{name: "render", err: &RenderError{Identifier: "a", Err: errors.New("boom")}, want: false},
		{name: "unresolvable", err: &UnresolvableEntryError{Path: "a", Reason: ReasonMissingSuffix}, want: false},
		{name: "plain", err: errors.New("plain"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "template bootstrap failed: templates: file does not exist",
		(&BootstrapError{Path: "templates", Err: os.ErrNotExist}).Error())
	assert.Equal(t, `unresolvable entry "logo.svg": missing marker suffix`,
		(&UnresolvableEntryError{Path: "logo.svg", Reason: ReasonMissingSuffix}).Error())
	assert.Equal(t, `render "index.html": boom`,
		(&RenderError{Identifier: "index.html", Err: errors.New("boom")}).Error())
	assert.Equal(t, "mkdir out/demo: permission denied",
		(&WriteError{Op: "mkdir", Path: "out/demo", Err: os.ErrPermission}).Error())

	assert.True(t, errors.Is(&BootstrapError{Err: os.ErrNotExist}, os.ErrNotExist))
}
