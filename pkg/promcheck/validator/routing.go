package validator

import (
	"github.com/lepicodon/yamalert/pkg/promcheck/diag"
	"github.com/lepicodon/yamalert/pkg/promcheck/document"
)

// validateRoutingConfig checks an Alertmanager routing configuration.
//
// Expected shape:
//
//	route:
//	  receiver: <string>        # must name a declared receiver
//	  routes: [...]             # optional sub-routes, shape only
//	receivers:
//	  - name: <string>          # unique across the sequence
//	inhibit_rules: [...]        # optional, shape only
func (v *Validator) validateRoutingConfig(root *document.Node, out *Outcome) {
	errs := out.Diagnostics

	if !root.IsMapping() {
		errs.Add(diag.TypeStructural, "Alertmanager config must be a mapping")
		return
	}

	route, routePresent := root.Get("route")
	if !routePresent {
		errs.Add(diag.TypeStructural, "Missing 'route'")
	} else if !route.IsMapping() {
		errs.Add(diag.TypeStructural, "'route' must be a mapping")
	} else {
		if _, present := route.Get("receiver"); !present {
			errs.Add(diag.TypeStructural, "Route missing 'receiver'")
		}
		if routes, present := route.Get("routes"); present && !routes.IsSequence() {
			errs.Add(diag.TypeStructural, "'routes' must be a list")
		}
	}

	receivers, receiversPresent := root.Get("receivers")
	switch {
	case !receiversPresent:
		errs.Add(diag.TypeStructural, "Missing 'receivers'")
	case !receivers.IsSequence():
		errs.Add(diag.TypeStructural, "'receivers' must be a list")
	default:
		// All names are collected regardless of duplication, so the
		// reference check below works even for imperfect documents.
		names := make(map[string]bool)
		reported := make(map[string]bool)

		for idx, receiver := range receivers.Items {
			n := idx + 1
			if !receiver.IsMapping() {
				errs.Addf(diag.TypeStructural, "Receiver #%d must be a mapping", n)
				continue
			}
			name, present := receiver.Get("name")
			if !present {
				errs.Addf(diag.TypeStructural, "Receiver #%d missing 'name'", n)
				continue
			}
			if !name.IsText() {
				errs.Addf(diag.TypeStructural, "Receiver #%d 'name' must be a string", n)
				continue
			}
			// Exact, case-sensitive match; one diagnostic per duplicated
			// name no matter how many extra occurrences exist.
			if names[name.Text] && !reported[name.Text] {
				errs.Addf(diag.TypeStructural, "Duplicate receiver name '%s'", name.Text)
				reported[name.Text] = true
			}
			names[name.Text] = true
		}

		if routePresent && route.IsMapping() {
			if target, present := route.Get("receiver"); present && target.IsText() && target.Text != "" {
				if !names[target.Text] {
					errs.Addf(diag.TypeStructural, "Route references unknown receiver '%s'", target.Text)
				}
			}
		}
	}

	if inhibit, present := root.Get("inhibit_rules"); present && !inhibit.IsSequence() {
		errs.Add(diag.TypeStructural, "'inhibit_rules' must be a list")
	}
}
