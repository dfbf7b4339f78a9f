package helper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeLikeClause(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"fifty%", "fifty\\%"},
		{"%%", "\\%\\%"},
		{"", ""},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, SanitizeLikeClause(tt.in))
	}
}

func TestToSliceOfAny(t *testing.T) {
	out := ToSliceOfAny([]int{1, 2, 3})
	require.Len(t, out, 3)
	require.Equal(t, any(2), out[1])

	require.Empty(t, ToSliceOfAny([]string(nil)))
}
