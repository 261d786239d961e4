// Yamalert validates metrics-alerting configuration: Prometheus rule-group
// files and Alertmanager routing configs, including a syntax scan of every
// embedded PromQL expression.
//
// Usage:
//
//	# Validate a rule file
//	yamalert lint --file rules.yml
//
//	# Validate a directory, re-running on changes
//	yamalert lint --dir rules/ --watch
//
//	# Check a single expression
//	yamalert expr 'rate(http_requests_total[5m]) > 0.1'
//
//	# Run the template catalogue and validation API
//	yamalert serve --config config.yaml
//
//	# Insert the default template library
//	yamalert seed --config config.yaml
package main

func main() {
	Execute()
}
