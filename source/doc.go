// Package source provides built-in participant source implementations.
//
// Participant sources provide the registered participants of one dinner event.
// The package includes:
//
//   - Static: Fixed list of participants
//   - YAMLFile: Participants read from a YAML registration file
//   - Registrations: Participants replayed from a NATS JetStream registration stream
//
// Every source returns fresh participant copies, so one source can feed any number of
// calculations. Custom sources can be implemented by satisfying the
// types.ParticipantSource interface.
package source
