package orchestration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Invocation
	}{
		{in: "packages", want: Invocation{Name: "packages"}},
		{in: "require-timezone:Europe/Berlin", want: Invocation{Name: "require-timezone", Args: []string{"Europe/Berlin"}}},
		{in: "default:do_rsync=no", want: Invocation{Name: "default", Kwargs: map[string]string{"do_rsync": "no"}}},
		{
			in:   "apt_get_update:3600,x=a\\,b",
			want: Invocation{Name: "apt_get_update", Args: []string{"3600"}, Kwargs: map[string]string{"x": "a,b"}},
		},
		{in: `t:a\=b`, want: Invocation{Name: "t", Args: []string{"a=b"}}},
		{in: "t:", want: Invocation{Name: "t", Args: []string{""}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseInvocation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvocation_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", ":x", "t:=v", "t:a=1,a=2"} {
		_, err := ParseInvocation(in)
		assert.Error(t, err, in)
	}
}

func TestParseInvocations(t *testing.T) {
	t.Parallel()

	got, err := ParseInvocations([]string{"packages", "set-timezone:UTC"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "set-timezone:UTC", got[1].String())

	_, err = ParseInvocations([]string{"packages", ""})
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"y", "YES", "t", "True", "on", "1"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"n", "No", "f", "FALSE", "off", "0"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	for _, s := range []string{"", "maybe", "2", "yess"} {
		_, err := ParseBool(s)
		assert.Error(t, err, s)
	}
}
