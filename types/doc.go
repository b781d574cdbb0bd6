// Package types provides core type definitions and interfaces for the rundinner library.
//
// This package contains shared types that are used across multiple packages in the
// rundinner library. By keeping these types in a separate package, we avoid import cycles
// between the main rundinner package and its internal implementations.
//
// Key types:
//   - Participant: A person taking part in the dinner
//   - CourseClass: One course of the dinner (starter, main course, dessert)
//   - Team: Fixed-size group of participants cooking one course
//   - Schedule: Owner of the host/guest graph between teams
//   - VisitationPlan: Per-team view of its host and guest references
//   - CombinationInfo: Segmentation of a team count into rotation segments
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
