package expr

// Eval evaluates the tree against a fresh MapContext.
func (n *Node[I, F]) Eval() (Value[I, F], error) {
	return n.EvalWithContext(NewMapContext[I, F]())
}

// EvalWithContext evaluates the tree against c. Children are evaluated
// left to right before their parent, except that && and || skip their
// right operand once the left one decides the result.
//
// The first error aborts evaluation. Assignments made before it stay in c.
// Recursion depth equals tree depth, which BuildTree bounds.
func (n *Node[I, F]) EvalWithContext(c Context[I, F]) (Value[I, F], error) {
	switch n.op {
	case OpConst:
		return n.literal, nil

	case OpVariableRead:
		v, ok := c.GetVariable(n.name)
		if !ok {
			return Value[I, F]{}, &LookupError{Name: n.name, Err: ErrVariableNotFound}
		}
		return v, nil

	case OpVariableWrite:
		return Value[I, F]{}, &SyntaxError{Pos: -1, Token: n.name, Err: ErrMalformedTree}

	case OpAnd, OpOr:
		left, err := n.children[0].EvalWithContext(c)
		if err != nil {
			return Value[I, F]{}, err
		}
		return n.logical(n.op, left, c)

	case OpChain:
		var last Value[I, F]
		for _, child := range n.children {
			v, err := child.EvalWithContext(c)
			if err != nil {
				return Value[I, F]{}, err
			}
			last = v
		}
		return last, nil

	case OpTuple:
		values := make([]Value[I, F], len(n.children))
		for i, child := range n.children {
			v, err := child.EvalWithContext(c)
			if err != nil {
				return Value[I, F]{}, err
			}
			values[i] = v
		}
		return Value[I, F]{typ: TypeTuple, tuple: values}, nil

	case OpFunction:
		return n.call(c)

	case OpNeg, OpNot:
		v, err := n.children[0].EvalWithContext(c)
		if err != nil {
			return Value[I, F]{}, err
		}
		return applyUnary(n.op, v)
	}

	if n.op.IsAssignment() {
		return n.assign(c)
	}

	left, err := n.children[0].EvalWithContext(c)
	if err != nil {
		return Value[I, F]{}, err
	}
	right, err := n.children[1].EvalWithContext(c)
	if err != nil {
		return Value[I, F]{}, err
	}
	return applyBinary(n.op, left, right)
}

// logical finishes && or || given the evaluated left operand. The right
// child is evaluated only when left does not decide the result.
func (n *Node[I, F]) logical(op Operator, left Value[I, F], c Context[I, F]) (Value[I, F], error) {
	lb, err := left.AsBoolean()
	if err != nil {
		return Value[I, F]{}, err
	}
	if (op == OpAnd && !lb) || (op == OpOr && lb) {
		return BoolValue[I, F](lb), nil
	}

	right, err := n.children[1].EvalWithContext(c)
	if err != nil {
		return Value[I, F]{}, err
	}
	rb, err := right.AsBoolean()
	if err != nil {
		return Value[I, F]{}, err
	}
	return BoolValue[I, F](rb), nil
}

// assign evaluates = and the compound assignments. Compound forms read the
// current binding before evaluating the right operand.
func (n *Node[I, F]) assign(c Context[I, F]) (Value[I, F], error) {
	name := n.children[0].name

	var (
		result Value[I, F]
		err    error
	)
	if n.op == OpAssign {
		result, err = n.children[1].EvalWithContext(c)
	} else {
		current, ok := c.GetVariable(name)
		if !ok {
			return Value[I, F]{}, &LookupError{Name: name, Err: ErrVariableNotFound}
		}
		base := compoundBase[n.op]
		if base == OpAnd || base == OpOr {
			result, err = n.logical(base, current, c)
		} else {
			var right Value[I, F]
			right, err = n.children[1].EvalWithContext(c)
			if err == nil {
				result, err = applyBinary(base, current, right)
			}
		}
	}
	if err != nil {
		return Value[I, F]{}, err
	}

	if err := c.SetVariable(name, result); err != nil {
		return Value[I, F]{}, err
	}
	return result, nil
}

// call evaluates the argument and dispatches to the context's function
// of that name, falling back to the built-in catalog.
func (n *Node[I, F]) call(c Context[I, F]) (Value[I, F], error) {
	arg, err := n.children[0].EvalWithContext(c)
	if err != nil {
		return Value[I, F]{}, err
	}

	if fn, ok := c.GetFunction(n.name); ok {
		return fn.Call(arg)
	}
	if builtinsEnabled(c) {
		if fn, ok := builtin[I, F](n.name); ok {
			return fn(arg)
		}
	}
	return Value[I, F]{}, &LookupError{Name: n.name, Err: ErrFunctionNotFound}
}

// EvalStringWithContext evaluates the tree and requires a String result.
func (n *Node[I, F]) EvalStringWithContext(c Context[I, F]) (string, error) {
	v, err := n.EvalWithContext(c)
	if err != nil {
		return "", err
	}
	return v.AsString()
}

// EvalIntWithContext evaluates the tree and requires an Int result.
func (n *Node[I, F]) EvalIntWithContext(c Context[I, F]) (I, error) {
	v, err := n.EvalWithContext(c)
	if err != nil {
		var zero I
		return zero, err
	}
	return v.AsInt()
}

// EvalFloatWithContext evaluates the tree and requires a Float result.
func (n *Node[I, F]) EvalFloatWithContext(c Context[I, F]) (F, error) {
	v, err := n.EvalWithContext(c)
	if err != nil {
		var zero F
		return zero, err
	}
	return v.AsFloat()
}

// EvalNumberWithContext evaluates the tree and converts an Int or Float
// result to a float.
func (n *Node[I, F]) EvalNumberWithContext(c Context[I, F]) (F, error) {
	v, err := n.EvalWithContext(c)
	if err != nil {
		var zero F
		return zero, err
	}
	return v.AsNumber()
}

// EvalBooleanWithContext evaluates the tree and requires a Boolean result.
func (n *Node[I, F]) EvalBooleanWithContext(c Context[I, F]) (bool, error) {
	v, err := n.EvalWithContext(c)
	if err != nil {
		return false, err
	}
	return v.AsBoolean()
}

// EvalTupleWithContext evaluates the tree and requires a Tuple result.
func (n *Node[I, F]) EvalTupleWithContext(c Context[I, F]) ([]Value[I, F], error) {
	v, err := n.EvalWithContext(c)
	if err != nil {
		return nil, err
	}
	return v.AsTuple()
}

// EvalEmptyWithContext evaluates the tree and requires an Empty result.
func (n *Node[I, F]) EvalEmptyWithContext(c Context[I, F]) error {
	v, err := n.EvalWithContext(c)
	if err != nil {
		return err
	}
	return v.AsEmpty()
}
