package health

import (
	"context"
	"time"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

const checkTimeout = 5 * time.Second

type Checker interface {
	Check(ctx context.Context) error
	Name() string
}

type Health struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

type CheckResult struct {
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type CheckerRegistry struct {
	checkers []Checker
}

func NewCheckerRegistry() *CheckerRegistry {
	return &CheckerRegistry{
		checkers: make([]Checker, 0),
	}
}

func (r *CheckerRegistry) Register(checker Checker) {
	r.checkers = append(r.checkers, checker)
}

func (r *CheckerRegistry) Check(ctx context.Context) Health {
	results := make(map[string]CheckResult, len(r.checkers))
	overall := StatusHealthy

	for _, checker := range r.checkers {
		result := CheckResult{Status: StatusHealthy}

		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := checker.Check(checkCtx)
		cancel()

		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = err.Error()
			overall = StatusUnhealthy
		}
		result.Timestamp = time.Now()

		results[checker.Name()] = result
	}

	return Health{
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    results,
	}
}
