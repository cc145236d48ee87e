package check

import (
	"context"
	"fmt"
	"time"

	"campaignqa-srv/internal/model"
	pkgOtel "campaignqa-srv/pkg/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "campaignqa-srv/internal/check"

// Run executes c against rc. It stamps identity and duration on the result and turns a panic
// into an error result so one broken check never takes the run down.
func Run(ctx context.Context, c Check, rc *RunContext) (res model.CheckResult) {
	def := c.Definition()
	ctx, span := pkgOtel.Tracer(tracerName).Start(ctx, "check."+def.ID)
	defer span.End()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = Result(model.CheckStatusError, fmt.Sprintf("Check error: %v", p))
		}
		res = stamp(res, def, rc.RunID, time.Since(start))
		span.SetAttributes(
			attribute.String("check.status", string(res.Status)),
			attribute.Int64("check.execution_ms", res.ExecutionMS),
		)
		if res.Status == model.CheckStatusError {
			span.SetStatus(codes.Error, res.Message)
		}
	}()

	return c.Execute(ctx, rc)
}

// Timeout builds the error result published when a check misses its deadline.
func Timeout(def Definition, runID string, elapsed time.Duration) model.CheckResult {
	res := Result(model.CheckStatusError, fmt.Sprintf("Check timed out after %s", elapsed.Round(time.Millisecond)))
	return stamp(res, def, runID, elapsed)
}

func stamp(res model.CheckResult, def Definition, runID string, elapsed time.Duration) model.CheckResult {
	res.RunID = runID
	res.CheckID = def.ID
	res.CheckName = def.Name
	res.Category = def.Category
	res.Platform = def.PlatformLabel()
	res.Severity = def.Severity
	res.ExecutionMS = elapsed.Milliseconds()
	if res.Status == "" {
		res.Status = model.CheckStatusError
		res.Message = "Check returned no status"
	}
	if res.AffectedItems == nil {
		res.AffectedItems = []string{}
	}
	if res.Metadata == nil {
		res.Metadata = map[string]any{}
	}
	return res
}
