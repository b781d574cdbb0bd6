// Package hooks provides default implementations of calculation hooks.
package hooks

import (
	"context"

	"github.com/arloliu/rundinner/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, *types.TeamsResult) error = (*NopHooks)(nil).OnTeamsFormed
	_ func(context.Context, []*types.Team) error      = (*NopHooks)(nil).OnCoursesAssigned
	_ func(context.Context, *types.Schedule) error    = (*NopHooks)(nil).OnScheduleBuilt
	_ func(context.Context, error) error              = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnTeamsFormed:     h.OnTeamsFormed,
		OnCoursesAssigned: h.OnCoursesAssigned,
		OnScheduleBuilt:   h.OnScheduleBuilt,
		OnError:           h.OnError,
	}
}

// Fill returns a copy of hooks with every nil callback replaced by a no-op.
//
// Parameters:
//   - hooks: User hooks, may be nil
//
// Returns:
//   - types.Hooks: Hooks whose callbacks are all non-nil
func Fill(hooks *types.Hooks) types.Hooks {
	result := NewNop()
	if hooks == nil {
		return result
	}
	if hooks.OnTeamsFormed != nil {
		result.OnTeamsFormed = hooks.OnTeamsFormed
	}
	if hooks.OnCoursesAssigned != nil {
		result.OnCoursesAssigned = hooks.OnCoursesAssigned
	}
	if hooks.OnScheduleBuilt != nil {
		result.OnScheduleBuilt = hooks.OnScheduleBuilt
	}
	if hooks.OnError != nil {
		result.OnError = hooks.OnError
	}

	return result
}

// OnTeamsFormed is a no-op implementation.
func (h *NopHooks) OnTeamsFormed(ctx context.Context, result *types.TeamsResult) error {
	return nil
}

// OnCoursesAssigned is a no-op implementation.
func (h *NopHooks) OnCoursesAssigned(ctx context.Context, teams []*types.Team) error {
	return nil
}

// OnScheduleBuilt is a no-op implementation.
func (h *NopHooks) OnScheduleBuilt(ctx context.Context, schedule *types.Schedule) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
