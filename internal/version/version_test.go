package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoIsPopulated(t *testing.T) {
	v, c, d := Info()
	require.NotEmpty(t, v)
	require.NotEmpty(t, c)
	require.NotEmpty(t, d)

	require.Equal(t, v, GetVersion())
	require.Equal(t, c, GetCommit())
	require.Equal(t, d, GetDate())
}

func TestString(t *testing.T) {
	s := String()
	require.Contains(t, s, "version="+GetVersion())
	require.Contains(t, s, "commit="+GetCommit())
	require.Contains(t, s, "date="+GetDate())
}
