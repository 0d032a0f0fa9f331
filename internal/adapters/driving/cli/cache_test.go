package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheInvalidateCmd(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		prefix string
	}{
		{name: "everything", args: []string{"cache", "invalidate"}, prefix: ""},
		{name: "prefix", args: []string{"cache", "invalidate", "/bill/118"}, prefix: "/bill/118"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := &mockRecordService{removed: 3}

			stdout, _, err := runCommand(t, &Services{Records: records}, tt.args...)

			require.NoError(t, err)
			assert.Equal(t, tt.prefix, records.lastPrefix)
			assert.Contains(t, stdout, "Removed 3 cached response(s).")
		})
	}
}

func TestCacheInvalidateCmd_JSON(t *testing.T) {
	records := &mockRecordService{removed: 1}

	stdout, _, err := runCommand(t, &Services{Records: records}, "cache", "invalidate", "/member", "--json")

	require.NoError(t, err)
	assert.JSONEq(t, `{"prefix": "/member", "removed": 1}`, stdout)
}
