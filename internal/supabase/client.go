package supabase

import (
	"sync"

	supa "github.com/supabase-community/supabase-go"

	"threadline/config"
	threadline_errors "threadline/pkg/errors"
)

// Singleton instance variables for the anon client
var (
	anonClient *supa.Client
	anonErr    error
	anonOnce   sync.Once
)

// Anon returns the shared anonymous-key client. The client is constructed on
// first use and memoized for the rest of the process lifetime; every call
// returns the same handle. Construction fails with ErrMissingConfig when the
// project URL or the anon key is absent.
func Anon(cfg *config.Config) (*supa.Client, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseAnonKey == "" {
		return nil, threadline_errors.MissingEnv("SUPABASE_URL", "SUPABASE_ANON_KEY")
	}
	anonOnce.Do(func() {
		anonClient, anonErr = supa.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, &supa.ClientOptions{})
	})
	return anonClient, anonErr
}

// Admin returns a service-role client. Unlike Anon it is never memoized: the
// privileged handle is constructed fresh per call so it is scoped to the
// operation that asked for it. Fails with ErrMissingConfig when the project
// URL or the service-role key is absent.
func Admin(cfg *config.Config) (*supa.Client, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceRoleKey == "" {
		return nil, threadline_errors.MissingEnv("SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY")
	}
	return supa.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, &supa.ClientOptions{})
}

// Reset clears the memoized anon client so tests can exercise construction
// under different configurations.
func Reset() {
	anonOnce = sync.Once{}
	anonClient = nil
	anonErr = nil
}
