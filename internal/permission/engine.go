package permission

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for expansion.
var (
	// ErrUnknownCapability is returned when Expand is asked for a
	// capability with no registered rule. Never ignored: an empty table
	// entry would silently grant nothing where the caller expected a
	// policy.
	ErrUnknownCapability = errors.New("permission: unknown capability")
	// ErrExpandDepthExceeded is returned when composite rules recurse past
	// the depth bound, which means a rule cycle.
	ErrExpandDepthExceeded = errors.New("permission: expansion depth exceeded")
)

// DefaultMaxDepth bounds rule recursion. Legitimate compositions are two
// levels deep (unit scope -> object scope); anything deeper is a cycle.
const DefaultMaxDepth = 8

// Expander is the engine surface rules use to compose other capabilities.
type Expander interface {
	// Expand returns the (level, objects) grants that the capability authorizes over
	// scope as of day.
	Expand(ctx context.Context, capability Capability, scope []Ref, day time.Time) ([]Grant, error)
}

// Rule expands one capability. Rules are pure apart from reads through the
// store interfaces they close over; they may compose other capabilities via
// the Expander. Returning no grants is valid (placeholder capabilities).
type Rule func(ctx context.Context, ex Expander, scope []Ref, day time.Time) ([]Grant, error)

// Engine dispatches capabilities to their rules. Build it once at startup
// with a complete rule table; it is immutable afterwards and safe for
// concurrent use.
type Engine struct {
	rules    map[Capability]Rule
	maxDepth int
}

// NewEngine returns an engine over the given rule table. maxDepth <= 0
// selects DefaultMaxDepth. The table is copied; later mutation of the
// argument does not affect the engine.
func NewEngine(rules map[Capability]Rule, maxDepth int) *Engine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	copied := make(map[Capability]Rule, len(rules))
	for c, r := range rules {
		copied[c] = r
	}
	return &Engine{rules: copied, maxDepth: maxDepth}
}

// Expand returns the grants the capability authorizes over scope as of day.
// Fails with ErrUnknownCapability for unregistered capabilities. A store
// failure inside a rule propagates unchanged and the whole expansion fails;
// no partial result is returned.
func (e *Engine) Expand(ctx context.Context, capability Capability, scope []Ref, day time.Time) ([]Grant, error) {
	return e.expand(ctx, capability, scope, day, 0)
}

func (e *Engine) expand(ctx context.Context, capability Capability, scope []Ref, day time.Time, depth int) ([]Grant, error) {
	if depth >= e.maxDepth {
		return nil, fmt.Errorf("%w: at %s", ErrExpandDepthExceeded, capability)
	}
	rule, ok := e.rules[capability]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, capability)
	}
	return rule(ctx, &depthExpander{engine: e, depth: depth + 1}, scope, day)
}

// depthExpander carries the recursion depth across composed rule calls.
type depthExpander struct {
	engine *Engine
	depth  int
}

func (d *depthExpander) Expand(ctx context.Context, capability Capability, scope []Ref, day time.Time) ([]Grant, error) {
	return d.engine.expand(ctx, capability, scope, day, d.depth)
}
