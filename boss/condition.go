package boss

import (
	"fmt"

	"github.com/d5/tengo/v2"
)

const conditionResult = "when_result"

// ConditionEnv is what an attack's `when` expression can see.
type ConditionEnv struct {
	HealthFraction float64
	Distance       float64
	BuffActive     bool
	TargetsInRange int
}

// Condition is a compiled tengo expression evaluated against ConditionEnv.
type Condition struct {
	expr     string
	compiled *tengo.Compiled
}

// CompileCondition compiles expr once. Each Eval runs on a clone.
func CompileCondition(expr string) (*Condition, error) {
	script := tengo.NewScript([]byte(conditionResult + " := (" + expr + ")"))
	for name, zero := range map[string]interface{}{
		"health_fraction":  0.0,
		"distance":         0.0,
		"buff_active":      false,
		"targets_in_range": 0,
	} {
		if err := script.Add(name, zero); err != nil {
			return nil, fmt.Errorf("condition %q: %w", expr, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", expr, err)
	}
	return &Condition{expr: expr, compiled: compiled}, nil
}

func (c *Condition) String() string { return c.expr }

// Eval runs the expression. A nil condition always holds.
func (c *Condition) Eval(env ConditionEnv) (bool, error) {
	if c == nil {
		return true, nil
	}
	run := c.compiled.Clone()
	for name, v := range map[string]interface{}{
		"health_fraction":  env.HealthFraction,
		"distance":         env.Distance,
		"buff_active":      env.BuffActive,
		"targets_in_range": env.TargetsInRange,
	} {
		if err := run.Set(name, v); err != nil {
			return false, fmt.Errorf("condition %q: %w", c.expr, err)
		}
	}
	if err := run.Run(); err != nil {
		return false, fmt.Errorf("condition %q: %w", c.expr, err)
	}
	return run.Get(conditionResult).Bool(), nil
}
