package validator

import (
	"github.com/lepicodon/yamalert/pkg/promcheck/diag"
	"github.com/lepicodon/yamalert/pkg/promcheck/document"
	"github.com/lepicodon/yamalert/pkg/promcheck/promql"
)

// validateRuleSet checks a Prometheus rule-group document.
//
// Expected shape:
//
//	groups:
//	  - name: <string>
//	    rules:
//	      - alert|record: <string>
//	        expr: <string>
//	        for: <string>
//	        labels: <mapping>
//	        annotations: <mapping>
//
// Unknown scalar or mapping fields on a rule (runbook links, dashboards)
// are passthrough, not errors.
func (v *Validator) validateRuleSet(root *document.Node, out *Outcome) {
	errs := out.Diagnostics

	if !root.IsMapping() {
		errs.Add(diag.TypeStructural, "Prometheus rules must be a mapping")
		return
	}

	groups, present := root.Get("groups")
	if !present {
		errs.Add(diag.TypeStructural, "Missing 'groups' key")
		return
	}
	if !groups.IsSequence() {
		errs.Add(diag.TypeStructural, "'groups' must be a list")
		return
	}

	for i, group := range groups.Items {
		v.validateGroup(group, i+1, out)
	}
}

// validateGroup checks one rule group. i is the 1-based group number.
func (v *Validator) validateGroup(group *document.Node, i int, out *Outcome) {
	errs := out.Diagnostics

	if !group.IsMapping() {
		errs.Addf(diag.TypeStructural, "Group #%d must be a mapping", i)
		return
	}

	if name, present := group.Get("name"); !present {
		errs.Addf(diag.TypeStructural, "Group #%d missing 'name'", i)
	} else if !name.IsText() {
		errs.Addf(diag.TypeStructural, "Group #%d 'name' must be a string", i)
	} else if name.Text == "" {
		errs.Addf(diag.TypeStructural, "Group #%d 'name' must not be empty", i)
	}

	rules, present := group.Get("rules")
	if !present {
		errs.Addf(diag.TypeStructural, "Group #%d missing 'rules'", i)
		return
	}
	if !rules.IsSequence() {
		errs.Addf(diag.TypeStructural, "Group #%d 'rules' must be a list", i)
		return
	}

	for j, rule := range rules.Items {
		v.validateRule(rule, i, j+1, out)
	}
}

// validateRule checks one alerting or recording rule. The rule number j is
// 1-based within its group.
func (v *Validator) validateRule(rule *document.Node, i, j int, out *Outcome) {
	errs := out.Diagnostics

	if !rule.IsMapping() {
		errs.Addf(diag.TypeStructural, "Group #%d Rule #%d must be a mapping", i, j)
		return
	}

	if expr, present := rule.Get("expr"); !present {
		errs.Addf(diag.TypeStructural, "Group #%d Rule #%d missing 'expr'", i, j)
	} else if !expr.IsText() {
		errs.Addf(diag.TypeStructural, "Group #%d Rule #%d 'expr' must be a string", i, j)
	} else {
		out.ExprChecked++
		if result := promql.ScanWith(expr.Text, v.scanOpts); !result.Valid {
			out.ExprInvalid++
			errs.Addf(diag.TypeExpression, "Group #%d Rule #%d invalid PromQL: %s", i, j, result.Reason)
		}
	}

	for _, field := range []string{"alert", "record", "for"} {
		if value, present := rule.Get(field); present && !value.IsText() {
			errs.Addf(diag.TypeStructural, "Group #%d Rule #%d '%s' must be a string", i, j, field)
		}
	}

	for _, field := range []string{"labels", "annotations"} {
		if value, present := rule.Get(field); present && !value.IsMapping() {
			errs.Addf(diag.TypeStructural, "Group #%d Rule #%d '%s' must be a mapping", i, j, field)
		}
	}
}
