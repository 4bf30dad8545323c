package ragdoll

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger routes lifecycle events (instance create/prune, knockouts,
// grabs, teleports) to the given logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithRandSource fixes the randomness behind hit bone selection. Tests use
// this to make hit reactions deterministic.
func WithRandSource(src rand.Source) Option {
	return func(m *Manager) { m.rng = rand.New(src) }
}
