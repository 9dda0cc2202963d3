// Package orchestrator drives the per-record transformation pipeline: it
// resolves each step event against the configured operations, moves record
// state between step prefixes in storage, and assembles the final archives.
package orchestrator

import (
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/Ramsey-B/fern/pkg/tarball"
)

// Options carries the optional finalize-side collaborators. Locker and
// Producer are nil when Redis or Kafka is disabled.
type Options struct {
	// RegisterKey overrides the transfer register location
	RegisterKey string

	// BatchSize caps files per tarball
	BatchSize int

	// Locker serializes register writes across concurrent finalize runs
	Locker *redis.Locker

	// LockTTL bounds how long a finalize run may hold the register lock
	LockTTL time.Duration

	// LockTimeout bounds how long a finalize run waits for the lock
	LockTimeout time.Duration

	// Producer publishes transfer notifications after a successful finalize
	Producer *kafka.Producer
}

type Orchestrator struct {
	store       storage.ObjectStore
	logger      ectologger.Logger
	registerKey string
	batchSize   int
	locker      *redis.Locker
	lockTTL     time.Duration
	lockTimeout time.Duration
	producer    *kafka.Producer
}

func New(store storage.ObjectStore, logger ectologger.Logger, opts Options) *Orchestrator {
	registerKey := opts.RegisterKey
	if registerKey == "" {
		registerKey = storage.RegisterKey
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = tarball.DefaultBatchSize
	}
	lockTTL := opts.LockTTL
	if lockTTL == 0 {
		lockTTL = 60 * time.Second
	}
	lockTimeout := opts.LockTimeout
	if lockTimeout == 0 {
		lockTimeout = 30 * time.Second
	}
	return &Orchestrator{
		store:       store,
		logger:      logger,
		registerKey: registerKey,
		batchSize:   batchSize,
		locker:      opts.Locker,
		lockTTL:     lockTTL,
		lockTimeout: lockTimeout,
		producer:    opts.Producer,
	}
}
