package supabase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threadline/config"
	threadline_errors "threadline/pkg/errors"
)

func validConfig() *config.Config {
	return &config.Config{
		SupabaseURL:            "http://localhost:54321",
		SupabaseAnonKey:        "anon-key",
		SupabaseServiceRoleKey: "service-role-key",
	}
}

func TestAnon_missingConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "no url", cfg: &config.Config{SupabaseAnonKey: "anon-key"}},
		{name: "no key", cfg: &config.Config{SupabaseURL: "http://localhost:54321"}},
		{name: "nothing", cfg: &config.Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			_, err := Anon(tt.cfg)
			assert.ErrorIs(t, err, threadline_errors.ErrMissingConfig)
		})
	}
}

func TestAnon_memoizes(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Anon(validConfig())
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := Anon(validConfig())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestAnon_guardRunsEveryCall(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	// A call against a broken config fails without poisoning the memo; the
	// next call with a complete config still constructs.
	_, err := Anon(&config.Config{})
	require.ErrorIs(t, err, threadline_errors.ErrMissingConfig)

	client, err := Anon(validConfig())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestAdmin_missingConfig(t *testing.T) {
	_, err := Admin(&config.Config{SupabaseURL: "http://localhost:54321"})
	assert.ErrorIs(t, err, threadline_errors.ErrMissingConfig)

	_, err = Admin(&config.Config{SupabaseServiceRoleKey: "service-role-key"})
	assert.ErrorIs(t, err, threadline_errors.ErrMissingConfig)
}

func TestAdmin_freshClientPerCall(t *testing.T) {
	cfg := validConfig()

	first, err := Admin(cfg)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := Admin(cfg)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}
