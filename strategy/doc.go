// Package strategy provides built-in route strategy implementations.
//
// Route strategies build the host/guest references of one rotation segment. The
// package includes three built-in strategies:
//
//   - TemplateFirst: Template when one exists, ConstraintSearch otherwise (default)
//   - Template: Precomputed combinatorial designs for 4 and 6 teams with two courses
//     and 9, 12 and 15 teams with three courses
//   - ConstraintSearch: Greedy search usable for any segment shape
//
// # Strategy Selection Guide
//
// Template:
//   - Every supported table yields a complete schedule in which no two teams meet twice
//   - Fails with types.ErrUnsupportedSegment for other segment shapes
//
// ConstraintSearch:
//   - Best effort: it never backtracks and can leave teams with missing references
//   - Completes 4, 8 and 12 team segments with two or three courses and 16 team segments
//     with four courses; fails for 6, 9, 15 and 25 team segments among others
//   - The caller validates the schedule and decides whether an incomplete route is fatal
//
// Custom strategies can be implemented by satisfying the types.RouteStrategy interface.
package strategy
