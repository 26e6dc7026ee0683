package config

import (
	"math"

	"github.com/casbin/govaluate"
	"github.com/pkg/errors"
)

// Default sizing expressions. Variables: h is the perceptron history length,
// budget the storage budget in KiB and theta the derived threshold.
const (
	DefaultThetaExpression     = "round(1.93 * h + 14)"
	DefaultTableSizeExpression = "round((budget * 1024 * 8 - h) / ((log2(theta) + 1) * h))"
)

// Sizing derives the perceptron threshold and table size from a history
// length and a storage budget.
type Sizing struct {
	BudgetKiB           float64
	ThetaExpression     string
	TableSizeExpression string
}

// DefaultSizing returns a Sizing with the default expressions and no budget.
func DefaultSizing() Sizing {
	return Sizing{
		ThetaExpression:     DefaultThetaExpression,
		TableSizeExpression: DefaultTableSizeExpression,
	}
}

// Resolve completes a perceptron scheme that gives only its history length.
// Any other scheme is returned as is.
func (z Sizing) Resolve(s Scheme) (Scheme, error) {
	if s.Kind != Perceptron || len(s.Params) != 1 {
		return s, nil
	}
	if z.BudgetKiB <= 0 {
		return s, errors.Errorf("%s required for %s predictor (or set a storage budget)",
			s.Kind.Usage(), s.Kind)
	}

	theta, tableSize, err := z.Derive(s.Params[0])
	if err != nil {
		return s, err
	}
	return Scheme{Kind: Perceptron, Params: []uint32{s.Params[0], tableSize, theta}}, nil
}

// Derive evaluates the sizing expressions for history length h.
func (z Sizing) Derive(h uint32) (theta, tableSize uint32, err error) {
	if h == 0 {
		return 0, 0, errors.New("perceptron history size must be >= 1")
	}

	vars := map[string]interface{}{
		"h":      float64(h),
		"budget": z.BudgetKiB,
	}

	t, err := evaluate(z.ThetaExpression, vars)
	if err != nil {
		return 0, 0, errors.Wrap(err, "theta expression")
	}
	if t < 0 {
		return 0, 0, errors.Errorf("theta expression gave %v, want >= 0", t)
	}
	vars["theta"] = t

	n, err := evaluate(z.TableSizeExpression, vars)
	if err != nil {
		return 0, 0, errors.Wrap(err, "table size expression")
	}
	if n < 1 {
		return 0, 0, errors.Errorf("table size expression gave %v, want >= 1", n)
	}

	return uint32(t), uint32(n), nil
}

func evaluate(expression string, vars map[string]interface{}) (float64, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, sizingFunctions())
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %q", expression)
	}

	result, err := expr.Evaluate(vars)
	if err != nil {
		return 0, errors.Wrapf(err, "evaluating %q", expression)
	}

	v, ok := result.(float64)
	if !ok {
		return 0, errors.Errorf("%q is not numeric: %v", expression, result)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v > math.MaxUint32 {
		return 0, errors.Errorf("%q is out of range: %v", expression, v)
	}
	return v, nil
}

// sizingFunctions defines the functions sizing expressions may call.
func sizingFunctions() map[string]govaluate.ExpressionFunction {
	unary := func(name string, f func(float64) float64) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, errors.Errorf("%s takes 1 argument, got %d", name, len(args))
			}
			x, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			return f(x), nil
		}
	}
	binary := func(name string, f func(float64, float64) float64) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 2 {
				return nil, errors.Errorf("%s takes 2 arguments, got %d", name, len(args))
			}
			x, err := toFloat(args[0])
			if err != nil {
				return nil, err
			}
			y, err := toFloat(args[1])
			if err != nil {
				return nil, err
			}
			return f(x, y), nil
		}
	}

	return map[string]govaluate.ExpressionFunction{
		"round": unary("round", math.Round),
		"floor": unary("floor", math.Floor),
		"ceil":  unary("ceil", math.Ceil),
		"log2":  unary("log2", math.Log2),
		"max":   binary("max", math.Max),
		"min":   binary("min", math.Min),
	}
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	default:
		return 0, errors.Errorf("%v is not a number", v)
	}
}
