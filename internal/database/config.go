package database

import "time"

// Config describes how to reach a database and how large a pool to keep
// while introspecting it.
type Config struct {
	DSN string // connection URL as given on the command line

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// ConnectTimeout bounds dialing a single connection.
	ConnectTimeout time.Duration
	// QueryTimeout bounds the whole introspection, all catalog queries
	// included.
	QueryTimeout time.Duration
}

// DefaultConfig sizes the pool for one generator run: the two catalog
// queries run concurrently, then the pool is closed.
func DefaultConfig(dsn string) *Config {
	return &Config{
		DSN:             dsn,
		MaxConns:        4,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: time.Minute,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    time.Minute,
	}
}
