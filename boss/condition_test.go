package boss

import "testing"

func TestCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		env  ConditionEnv
		want bool
	}{
		{"health_fraction <= 0.3", ConditionEnv{HealthFraction: 0.3}, true},
		{"health_fraction <= 0.3", ConditionEnv{HealthFraction: 0.31}, false},
		{"distance < 10 && !buff_active", ConditionEnv{Distance: 4}, true},
		{"distance < 10 && !buff_active", ConditionEnv{Distance: 4, BuffActive: true}, false},
		{"targets_in_range >= 2", ConditionEnv{TargetsInRange: 3}, true},
	}

	for _, tt := range tests {
		c, err := CompileCondition(tt.expr)
		if err != nil {
			t.Fatalf("CompileCondition(%q) error = %v", tt.expr, err)
		}
		got, err := c.Eval(tt.env)
		if err != nil {
			t.Fatalf("Eval(%q) error = %v", tt.expr, err)
		}
		if got != tt.want {
			t.Errorf("Eval(%q, %+v) = %v; want %v", tt.expr, tt.env, got, tt.want)
		}
	}
}

func TestConditionCompileError(t *testing.T) {
	t.Parallel()

	if _, err := CompileCondition("health_fraction <="); err == nil {
		t.Error("CompileCondition on broken expression error = nil; want error")
	}
	var nilCond *Condition
	if ok, err := nilCond.Eval(ConditionEnv{}); !ok || err != nil {
		t.Errorf("nil condition = %v, %v; want true, nil", ok, err)
	}
}
