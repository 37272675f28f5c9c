package server

import "context"

type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// HealthCheckerFunc adapts a plain function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) bool

func (f HealthCheckerFunc) Healthy(ctx context.Context) bool {
	return f(ctx)
}

type compositeHealthChecker []HealthChecker

// All is healthy only when every checker is. With no checkers it always
// reports healthy.
func All(checkers ...HealthChecker) HealthChecker {
	return compositeHealthChecker(checkers)
}

func (c compositeHealthChecker) Healthy(ctx context.Context) bool {
	for _, hc := range c {
		if !hc.Healthy(ctx) {
			return false
		}
	}
	return true
}
