package types

import "time"

// StoreConfig configures the NATS JetStream KV schedule store.
type StoreConfig struct {
	// Bucket is the KV bucket holding schedule snapshots.
	Bucket string `yaml:"bucket"`

	// KeyPrefix is prepended to every key written by the store.
	KeyPrefix string `yaml:"keyPrefix"`

	// TTL is how long stored schedules remain in KV (0 = no expiration).
	TTL time.Duration `yaml:"ttl"`

	// OperationTimeout bounds every single KV operation.
	OperationTimeout time.Duration `yaml:"operationTimeout"`
}
