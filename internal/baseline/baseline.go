// Package baseline provides a CEL-based heuristic detector evaluated on
// every generated event. It gives the online learner a fixed rule-driven
// reference point: the driver scores both against ground truth so runs
// report model-vs-rules macro F1 side by side.
package baseline

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/opensource-finance/shrike/internal/domain"
)

// Rule maps a boolean CEL expression to the typology it claims.
// Rules are evaluated in order; the first match wins.
type Rule struct {
	Typology   string
	Expression string
}

type compiledRule struct {
	typology string
	program  cel.Program
}

// Detector evaluates an ordered rule set against generated events.
type Detector struct {
	env   *cel.Env
	rules []compiledRule
}

// New compiles the rule set. Every expression must evaluate to bool.
func New(rules []Rule) (*Detector, error) {
	env, err := cel.NewEnv(
		cel.Variable("amount", cel.DoubleType),
		cel.Variable("geo_jump", cel.IntType),
		cel.Variable("hour", cel.IntType),
		cel.Variable("txn_count_1h", cel.IntType),
		cel.Variable("time_since_last", cel.IntType),
		cel.Variable("amount_change_ratio", cel.DoubleType),
		cel.Variable("first_time_receiver", cel.BoolType),
		cel.Variable("new_device", cel.BoolType),
		cel.Variable("vpa_keyword", cel.BoolType),
		cel.Variable("tx_type", cel.StringType),
		cel.Variable("channel", cel.StringType),
		cel.Variable("network_type", cel.StringType),
		cel.Variable("receiver_id", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	d := &Detector{env: env}
	for _, r := range rules {
		ast, issues := env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("failed to compile rule %s: %w", r.Typology, issues.Err())
		}
		if ast.OutputType() != cel.BoolType {
			return nil, fmt.Errorf("rule %s: expression must return bool, got %s", r.Typology, ast.OutputType())
		}
		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("failed to create program for rule %s: %w", r.Typology, err)
		}
		d.rules = append(d.rules, compiledRule{typology: r.Typology, program: program})
	}
	return d, nil
}

// Predict returns the first matching rule's typology, or Legit when no
// rule fires. newDevice and vpaKeyword are the extractor's derived
// signals, passed in so the detector reads the exact inputs the learner
// sees.
func (d *Detector) Predict(ev *domain.TransactionEvent, newDevice, vpaKeyword bool) string {
	activation := map[string]any{
		"amount":              ev.Amount,
		"geo_jump":            int64(ev.GeoJump),
		"hour":                int64(ev.Timestamp.Hour()),
		"txn_count_1h":        int64(ev.TxnCount1h),
		"time_since_last":     ev.TimeSinceLastSecs,
		"amount_change_ratio": ev.AmountChangeRatio,
		"first_time_receiver": ev.FirstTimeReceiver == 1,
		"new_device":          newDevice,
		"vpa_keyword":         vpaKeyword,
		"tx_type":             ev.Type,
		"channel":             ev.Channel,
		"network_type":        ev.NetworkType,
		"receiver_id":         ev.ReceiverID,
	}

	for _, r := range d.rules {
		out, _, err := r.program.Eval(activation)
		if err != nil {
			continue // a rule error never blocks the remaining rules
		}
		if b, ok := out.(types.Bool); ok && bool(b) {
			return r.typology
		}
	}
	return domain.LabelLegit
}

// RulesCount returns the number of compiled rules.
func (d *Detector) RulesCount() int {
	return len(d.rules)
}

// DefaultRules returns heuristics mirroring the built-in typologies,
// ordered most specific first.
func DefaultRules() []Rule {
	return []Rule{
		{domain.TypologyVPAMimicry, `vpa_keyword && tx_type == 'Collect_Request'`},
		{domain.TypologySIMSwapATO, `new_device && hour >= 1 && hour <= 4 && geo_jump > 40`},
		{domain.TypologyIdentityTheft, `new_device && geo_jump > 40`},
		{domain.TypologyQRScam, `channel == 'QR_Scan' && geo_jump > 40`},
		{domain.TypologyCollectRequestScam, `tx_type == 'Collect_Request' && amount >= 3000.0`},
		{domain.TypologyPhishing, `receiver_id.contains('MULE') || amount_change_ratio > 4.0`},
	}
}
