// Command rundinner plans running dinner events from a participant list.
//
// Usage:
//
//	rundinner plan --participants participants.yaml --seed-key spring-2026
//	rundinner plan --participants participants.yaml --nats-url nats://localhost:4222
//	rundinner show --nats-url nats://localhost:4222 spring-2026
//	rundinner combination 42
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
