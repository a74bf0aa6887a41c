/*
Package expr implements a small embeddable expression language.

# Overview

Source text is lexed into tokens, parsed into an operator tree and then
evaluated against a Context holding variables and functions. Trees are
immutable and can be evaluated any number of times against different
contexts.

	tree, _ := expr.BuildTree[numeric.Int64, numeric.Float64]("a * 2 + 1")
	ctx := expr.NewDefaultContext().MustSetVariable("a", expr.Int(20))
	v, err := tree.EvalWithContext(ctx)   // Int 41

For one-off evaluation with the default numeric types use Eval and the
typed helpers:

	n, _ := expr.EvalInt("1 + 2 * 3")        // 7
	s, _ := expr.EvalString(`"a" + "b"`)     // "ab"
	b, _ := expr.EvalBoolean("2 > 1 && true") // true

# Values

A Value is one of String, Int, Float, Boolean, Tuple or Empty. Int and Float
are generic: Value[I, F] works with any I satisfying numeric.Integer and F
satisfying numeric.Float. DefaultValue uses 64-bit integers and floats;
numeric.BigInt gives arbitrary precision integers.

Equality is structural and never crosses kinds: 1 == 1.0 is false.

# Syntax

Operators from lowest to highest precedence:

	;                              sequence, yields the last value
	= += -= *= /= %= ^= &&= ||=    assignment, right-associative
	,                              tuple
	||
	&&
	== != < > <= >=                comparison, cannot be chained
	+ -
	* / %
	- !                            unary
	^                              power, right-associative

Literals are 42, 1.5, 1e3, "text" (escapes \" \\ \n \t \r), true and false.
Identifiers may contain "::" so that namespaced built-ins read naturally.
A call passes a single argument: f() passes Empty, f(x) passes x and
f(x, y) passes the Tuple (x, y).

# Evaluation

  - Int op Int uses checked arithmetic; overflow and division by zero are
    errors, never wraparound.
  - Int op Float converts the Int and yields a Float. ^ always yields a Float.
  - + also concatenates two Strings.
  - && and || evaluate the right operand only when needed.
  - = binds a variable, creating it if needed, and yields the bound value.
    Compound assignments require an existing binding.
  - Function names resolve against the context first, then the built-in
    catalog (see BuiltinNames).

The built-in if is an ordinary function: both branches are evaluated before
it is called.

# Errors

Failures are typed: *LexError, *SyntaxError, *ArityError, *TypeError,
*ArithmeticError, *LookupError and *ExternalError, plus sentinels for
matching with errors.Is. KindOf maps any error onto the closed ErrorKind set.

# Concurrency

Trees are safe for concurrent evaluation. A MapContext is not; give each
goroutine its own context or serialize evaluations against a shared one.
*/
package expr
