// Package library holds named host functions shared by many contexts.
//
// A Library is filled once at startup and installed into each context
// before evaluation:
//
//	lib := library.NewDefault()
//	lib.MustRegister("double", expr.NewFunction(func(v expr.DefaultValue) (expr.DefaultValue, error) {
//		n, err := v.AsInt()
//		if err != nil {
//			return expr.DefaultValue{}, err
//		}
//		return expr.Int(int64(n) * 2), nil
//	}))
//
//	c := expr.NewDefaultContext()
//	if err := lib.Install(c); err != nil {
//		return err
//	}
//
// The evalkit Engine owns a Library and installs it in every context it
// creates.
package library
