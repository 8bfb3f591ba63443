package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/myshop/internal/storage/storagetest"
)

func lookupFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestRun_RejectsBadArguments(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown direction", args: []string{"-direction", "sideways"}, want: "unsupported migration direction"},
		{name: "negative steps", args: []string{"-steps", "-1"}, want: "steps must be >= 0"},
		{name: "unknown flag", args: []string{"-dsn", "x"}, want: "flag provided but not defined"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := run(tc.args, lookupFrom(nil), &bytes.Buffer{})
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestRun_RequiresDatabaseURL(t *testing.T) {
	err := run([]string{"-direction", "status"}, lookupFrom(nil), &bytes.Buffer{})
	require.ErrorContains(t, err, "SHOP_DB_URL")
}

func TestRun_StatusAgainstPostgres(t *testing.T) {
	env := map[string]string{"SHOP_DB_URL": storagetest.PostgresDSNCandidates()[0]}

	var out bytes.Buffer
	if err := run([]string{"-direction", "up"}, lookupFrom(env), &out); err != nil {
		t.Skipf("postgres is not available: %v", err)
	}
	require.Contains(t, out.String(), "migrate up ok")

	out.Reset()
	require.NoError(t, run([]string{"-direction", " STATUS "}, lookupFrom(env), &out))
	require.Contains(t, out.String(), "migrate status ok")
}
