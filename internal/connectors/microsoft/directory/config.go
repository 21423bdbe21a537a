package directory

import "time"

// Config tunes the query engine. Zero fields take the defaults.
type Config struct {
	// DefaultSearchLimit applies when a search limit is <= 0.
	DefaultSearchLimit int
	// DefaultMembersLimit applies when a members limit is <= 0.
	DefaultMembersLimit int
	// MaxPageSize caps the $top sent to the directory.
	MaxPageSize int
	// MembershipCeiling bounds how many groups a membership listing returns.
	MembershipCeiling int
	// MembershipPageSize is the $top used for membership listings.
	MembershipPageSize int
	// MaxPages bounds continuation links followed per listing.
	MaxPages int
	// OperationTimeout bounds each operation including resolution.
	OperationTimeout time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		DefaultSearchLimit:  10,
		DefaultMembersLimit: 50,
		MaxPageSize:         999,
		MembershipCeiling:   1000,
		MembershipPageSize:  100,
		MaxPages:            DefaultMaxPages,
		OperationTimeout:    60 * time.Second,
	}
}

// withDefaults fills zero or negative fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.DefaultSearchLimit <= 0 {
		c.DefaultSearchLimit = d.DefaultSearchLimit
	}
	if c.DefaultMembersLimit <= 0 {
		c.DefaultMembersLimit = d.DefaultMembersLimit
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = d.MaxPageSize
	}
	if c.MembershipCeiling <= 0 {
		c.MembershipCeiling = d.MembershipCeiling
	}
	if c.MembershipPageSize <= 0 {
		c.MembershipPageSize = d.MembershipPageSize
	}
	if c.MaxPages <= 0 {
		c.MaxPages = d.MaxPages
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = d.OperationTimeout
	}
	return c
}
