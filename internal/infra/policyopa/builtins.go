package policyopa

import "github.com/open-policy-agent/opa/ast"

// Admission policies only inspect the submitted fields.
var allowedBuiltins = map[string]struct{}{
	"and":         {},
	"assign":      {},
	"concat":      {},
	"contains":    {},
	"count":       {},
	"endswith":    {},
	"eq":          {},
	"equal":       {},
	"gt":          {},
	"gte":         {},
	"indexof":     {},
	"lower":       {},
	"lt":          {},
	"lte":         {},
	"neq":         {},
	"or":          {},
	"regex.match": {},
	"replace":     {},
	"sprintf":     {},
	"startswith":  {},
	"substring":   {},
	"trim":        {},
	"trim_space":  {},
	"upper":       {},
}

func filterBuiltins(builtins []*ast.Builtin) []*ast.Builtin {
	allowed := make([]*ast.Builtin, 0, len(builtins))
	for _, builtin := range builtins {
		if _, ok := allowedBuiltins[builtin.Name]; !ok {
			continue
		}
		allowed = append(allowed, builtin)
	}
	return allowed
}
