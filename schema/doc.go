// Package schema adapts pluggable validators to a single contract.
//
// A Schema checks raw input and returns either the validated (possibly
// coerced or defaulted) value or an ordered list of issues:
//
//	type Schema interface {
//	    Validate(ctx context.Context, input any) (Result, error)
//	}
//
// Validate invokes the schema exactly once and turns a non-empty issue list
// into a *ValidationError:
//
//	data, err := schema.Validate(ctx, s, raw)
//	var verr *schema.ValidationError
//	if errors.As(err, &verr) {
//	    for _, issue := range verr.Issues {
//	        fmt.Println(issue)
//	    }
//	}
//
// # Adapters
//
//   - Func: a synchronous validation function
//   - Async: a validation function that delivers its result on a channel
//   - Passthrough: accepts any input unchanged
//   - Struct: decodes into a Go struct and checks go-playground/validator tags
//   - Rules: checks validator tags against key paths of untyped data
//
// Callers plugging in another validation library implement Schema directly;
// nothing in this module branches on the concrete schema type.
package schema
