package options

import (
	"errors"
	"testing"

	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		set     []bool
		wantErr string
	}{
		{"exactly one", []bool{false, true}, ""},
		{"none", []bool{false, false}, "must specify a table source (use WithTableCSVFile or WithTableRows)"},
		{"two", []bool{true, true}, "must specify exactly one table source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("table",
				Source{Option: "WithTableCSVFile", Set: tt.set[0]},
				Source{Option: "WithTableRows", Set: tt.set[1]},
			)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, mergeerrors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)

			var ce *mergeerrors.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "table", ce.Option)
		})
	}
}
