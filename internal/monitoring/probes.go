// Package monitoring runs liveness and readiness probes against the server's
// dependencies and folds the outcomes into a single report.
package monitoring

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Status grades a probe outcome.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

// severity ranks statuses so aggregation can keep the worst one seen.
var severity = map[Status]int{StatusUp: 0, StatusDegraded: 1, StatusDown: 2}

func worst(a, b Status) Status {
	if severity[b] > severity[a] {
		return b
	}
	return a
}

// CheckResult is the outcome of probing one component.
type CheckResult struct {
	Component string        `json:"component"`
	Status    Status        `json:"status"`
	Details   string        `json:"details,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Report aggregates probe outcomes; Status carries the worst result seen.
type Report struct {
	Success bool          `json:"success"`
	Status  Status        `json:"status"`
	Checks  []CheckResult `json:"checks"`
}

// Check names a probe and the function that runs it.
type Check struct {
	Name string
	Run  func(ctx context.Context) CheckResult
}

// Registry holds the configured probes. Registration happens during startup;
// evaluation is safe from concurrent handlers.
type Registry struct {
	mu        sync.RWMutex
	liveness  []Check
	readiness []Check
}

func NewRegistry() *Registry {
	return &Registry{}
}

// AddLiveness registers a probe for the process itself. Checks without a
// name or a run function are dropped.
func (r *Registry) AddLiveness(check Check) {
	r.add(&r.liveness, check)
}

// AddReadiness registers a probe for a dependency.
func (r *Registry) AddReadiness(check Check) {
	r.add(&r.readiness, check)
}

func (r *Registry) add(list *[]Check, check Check) {
	if check.Name == "" || check.Run == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	*list = append(*list, check)
}

// Liveness runs the process probes.
func (r *Registry) Liveness(ctx context.Context) Report {
	return evaluate(ctx, r.snapshot(&r.liveness))
}

// Readiness runs the dependency probes.
func (r *Registry) Readiness(ctx context.Context) Report {
	return evaluate(ctx, r.snapshot(&r.readiness))
}

func (r *Registry) snapshot(list *[]Check) []Check {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Check(nil), (*list)...)
}

func evaluate(ctx context.Context, checks []Check) Report {
	report := Report{Status: StatusUp, Checks: make([]CheckResult, 0, len(checks))}

	for _, check := range checks {
		res := execute(ctx, check)
		report.Checks = append(report.Checks, res)
		report.Status = worst(report.Status, res.Status)
	}

	report.Success = report.Status == StatusUp
	return report
}

// execute uses a named return so the recovery path can hand back a populated
// result instead of the zero value.
func execute(ctx context.Context, check Check) (res CheckResult) {
	if ctx == nil {
		ctx = context.Background()
	}
	began := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			details := "panic recovered"
			switch v := rec.(type) {
			case string:
				details = v
			case error:
				details = v.Error()
			}
			res = CheckResult{Status: StatusDown, Details: details, Duration: time.Since(began)}
		}
		res.Component = check.Name
	}()

	res = check.Run(ctx)

	if res.Status == "" {
		res.Status = StatusDown
	}
	if res.Duration == 0 {
		res.Duration = time.Since(began)
	}
	return res
}

// Combine folds any number of reports into one; the worst status wins.
func Combine(reports ...Report) Report {
	combined := Report{Status: StatusUp}
	for _, report := range reports {
		combined.Checks = append(combined.Checks, report.Checks...)
		combined.Status = worst(combined.Status, report.Status)
	}

	combined.Success = combined.Status == StatusUp
	return combined
}

// ResultFor grades err as a probe outcome. Timeouts and cancellations count
// as degraded rather than down.
func ResultFor(component string, err error, elapsed time.Duration) CheckResult {
	if elapsed < 0 {
		elapsed = 0
	}
	if err == nil {
		return CheckResult{Component: component, Status: StatusUp, Duration: elapsed}
	}

	status := StatusDown
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status = StatusDegraded
	}

	return CheckResult{
		Component: component,
		Status:    status,
		Details:   err.Error(),
		Duration:  elapsed,
	}
}
