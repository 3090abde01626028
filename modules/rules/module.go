// Package rules contributes the stock predicates and actions available to
// handler chains. Numeric predicates accept int, int64, and float64, since
// config feeds arrive as int64 and Go callers usually pass int.
package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/composekit/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func asFloat(req any) (float64, bool) {
	switch v := req.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// IsEvenInt matches even integers.
func IsEvenInt(req any) bool {
	f, ok := asFloat(req)
	return ok && int64(f)%2 == 0 && f == float64(int64(f))
}

// IsBigInt matches numbers greater than 100.
func IsBigInt(req any) bool {
	f, ok := asFloat(req)
	return ok && f > 100
}

// IsString matches string requests.
func IsString(req any) bool {
	_, ok := req.(string)
	return ok
}

// Always matches everything; useful as a chain's catch-all tail.
func Always(req any) bool {
	return true
}

// LabelEven labels a matched request "even".
func LabelEven(ctx context.Context, req any) (any, error) {
	return "even", nil
}

// LabelBig labels a matched request "big".
func LabelBig(ctx context.Context, req any) (any, error) {
	return "big", nil
}

// Upper upper-cases a string request.
func Upper(ctx context.Context, req any) (any, error) {
	s, ok := req.(string)
	if !ok {
		return nil, fmt.Errorf("upper: expected a string, got %T", req)
	}
	return strings.ToUpper(s), nil
}

// Echo returns the request unchanged.
func Echo(ctx context.Context, req any) (any, error) {
	return req, nil
}

// Register registers the package's predicates and actions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPredicate("IsEvenInt", IsEvenInt)
	r.RegisterPredicate("IsBigInt", IsBigInt)
	r.RegisterPredicate("IsString", IsString)
	r.RegisterPredicate("Always", Always)
	r.RegisterAction("LabelEven", LabelEven)
	r.RegisterAction("LabelBig", LabelBig)
	r.RegisterAction("Upper", Upper)
	r.RegisterAction("Echo", Echo)
}
