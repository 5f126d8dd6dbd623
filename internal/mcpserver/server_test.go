package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"no path", errors.New("bad input"), "bad input"},
		{"tmp path", errors.New("open /tmp/abc/doc.json: no such file"), "open <path>: no such file"},
		{"home path", errors.New("load error in /home/user/rows.csv"), "load error in <path>"},
		{"relative path kept", errors.New("open data/doc.json"), "open data/doc.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestErrResult(t *testing.T) {
	res := errResult(errors.New("read /root/secret.json failed"))
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "read <path> failed", text.Text)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0 fields", formatCount(0, "field"))
	assert.Equal(t, "1 field", formatCount(1, "field"))
	assert.Equal(t, "3 fields", formatCount(3, "field"))
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[int](0))
	s := makeSlice[int](4)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 4, cap(s))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
