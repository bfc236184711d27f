package harness

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Profile selects the iteration budget for a whole run.
type Profile uint8

const (
	// Quick favours fast feedback.
	Quick Profile = iota
	// Full favours stable numbers.
	Full
)

func (p Profile) String() string {
	switch p {
	case Quick:
		return "quick"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("profile(%d)", uint8(p))
	}
}

// ParseProfile accepts "quick" or "full".
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(s) {
	case "quick", "":
		return Quick, nil
	case "full":
		return Full, nil
	default:
		return Quick, fmt.Errorf("unknown profile %q (quick|full)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Profile) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profile) UnmarshalText(b []byte) error {
	v, err := ParseProfile(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Config is the per-run measurement configuration.
type Config struct {
	Profile Profile
	Seed    uint64
}

// WarmupIters returns the warmup count for the profile.
func (c Config) WarmupIters() uint64 {
	if c.Profile == Full {
		return 200
	}
	return 32
}

// Iters returns the measured iteration count for the profile.
func (c Config) Iters() uint64 {
	if c.Profile == Full {
		return 3_000
	}
	return 300
}

// Pick returns quick or full depending on the profile.
func (c Config) Pick(quick, full uint64) uint64 {
	if c.Profile == Full {
		return full
	}
	return quick
}

// RNG returns a generator seeded from the run seed. Each call starts a fresh,
// identical stream.
func (c Config) RNG() *rand.Rand {
	return rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
}
