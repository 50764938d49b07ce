package hclconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined reports whether an optional attribute was written in the
// file. gohcl fills omitted optional attributes with a zero-width
// placeholder expression, so a nil check is not enough.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}

func diagAt(expr hcl.Expression, summary, detail string) *hcl.Diagnostic {
	rng := expr.Range()
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   detail,
		Subject:  rng.Ptr(),
	}
}

// decodeID evaluates a vendor or product id. Numbers are taken as is;
// strings are parsed with base prefixes, so "0x06a3" works.
func decodeID(expr hcl.Expression, attr string) (uint16, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	if val.IsNull() || !val.IsKnown() {
		return 0, hcl.Diagnostics{diagAt(expr, "Invalid "+attr, "A value is required.")}
	}

	switch val.Type() {
	case cty.String:
		s := strings.TrimSpace(val.AsString())
		id, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return 0, hcl.Diagnostics{diagAt(expr, "Invalid "+attr, fmt.Sprintf("%q is not a 16-bit id: %s.", s, err))}
		}
		return uint16(id), nil
	case cty.Number:
		var id uint16
		if err := gocty.FromCtyValue(val, &id); err != nil {
			return 0, hcl.Diagnostics{diagAt(expr, "Invalid "+attr, fmt.Sprintf("Not a 16-bit id: %s.", err))}
		}
		return id, nil
	}
	return 0, hcl.Diagnostics{diagAt(expr, "Invalid "+attr, fmt.Sprintf("Expected a number or string, got %s.", val.Type().FriendlyName()))}
}

// decodeInt32 evaluates a numeric attribute into an int32.
func decodeInt32(expr hcl.Expression, attr string) (int32, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	var out int32
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return 0, hcl.Diagnostics{diagAt(expr, "Invalid "+attr, fmt.Sprintf("Expected a 32-bit integer: %s.", err))}
	}
	return out, nil
}

// decodeString evaluates an attribute that must be a string.
func decodeString(expr hcl.Expression, attr string) (string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	if val.IsNull() || val.Type() != cty.String {
		return "", hcl.Diagnostics{diagAt(expr, "Invalid "+attr, fmt.Sprintf("Expected a string, got %s.", val.Type().FriendlyName()))}
	}
	return val.AsString(), nil
}
