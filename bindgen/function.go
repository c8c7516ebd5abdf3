package bindgen

import (
	"fmt"

	"github.com/ardanlabs/bindgen/cast"
)

func (r *run) emitFunction(c cast.Cursor) (*FunctionSignature, Diagnostics) {
	var diags Diagnostics

	name := c.Spelling()
	ft := c.Type()
	if ft == nil || ft.Result() == nil {
		diags.add(InvariantViolation, name, "function without a function type")
		return nil, diags
	}

	sig := FunctionSignature{Name: name, Variadic: ft.Variadic()}
	sig.ReturnType, _ = r.resolve(ft.Result(), &diags)

	var params []cast.Cursor
	for _, child := range c.Children() {
		if child.Kind() == cast.ParmDecl {
			params = append(params, child)
		}
	}

	// int f(void) declares no parameters.
	if len(params) == 1 && isVoid(params[0].Type()) {
		params = nil
	}

	for i, p := range params {
		typeName, suffix := r.resolve(p.Type(), &diags)

		paramName := p.Spelling()
		if paramName == "" {
			paramName = fmt.Sprintf("arg%d", i+1)
		}

		sig.Params = append(sig.Params, Param{
			Name:   r.opts.Escape(paramName),
			Type:   typeName,
			Suffix: suffix,
		})
	}

	return &sig, diags
}
