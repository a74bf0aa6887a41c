package expr

// Operator is the tag of a tree node.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpNeg
	OpNot

	OpEq
	OpNeq
	OpGt
	OpLt
	OpGeq
	OpLeq
	OpAnd
	OpOr

	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpExpAssign
	OpAndAssign
	OpOrAssign

	// OpTuple builds a tuple from two or more children.
	OpTuple
	// OpChain evaluates two or more children in order and yields the last.
	OpChain

	// OpConst is a literal leaf.
	OpConst
	// OpVariableRead is an identifier leaf used as a value.
	OpVariableRead
	// OpVariableWrite is an identifier leaf on the left of an assignment.
	OpVariableWrite
	// OpFunction applies the named function to its single child.
	OpFunction
)

var operatorSymbols = map[Operator]string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpExp:       "^",
	OpNeg:       "-",
	OpNot:       "!",
	OpEq:        "==",
	OpNeq:       "!=",
	OpGt:        ">",
	OpLt:        "<",
	OpGeq:       ">=",
	OpLeq:       "<=",
	OpAnd:       "&&",
	OpOr:        "||",
	OpAssign:    "=",
	OpAddAssign: "+=",
	OpSubAssign: "-=",
	OpMulAssign: "*=",
	OpDivAssign: "/=",
	OpModAssign: "%=",
	OpExpAssign: "^=",
	OpAndAssign: "&&=",
	OpOrAssign:  "||=",
	OpTuple:     ",",
	OpChain:     ";",
}

// String returns the operator symbol, or a name for leaves and calls.
func (op Operator) String() string {
	if s, ok := operatorSymbols[op]; ok {
		return s
	}
	switch op {
	case OpConst:
		return "const"
	case OpVariableRead:
		return "read"
	case OpVariableWrite:
		return "write"
	case OpFunction:
		return "call"
	default:
		return "unknown"
	}
}

// Arity returns the number of children the operator takes, or -1 for
// operators taking two or more.
func (op Operator) Arity() int {
	switch op {
	case OpConst, OpVariableRead, OpVariableWrite:
		return 0
	case OpNeg, OpNot, OpFunction:
		return 1
	case OpTuple, OpChain:
		return -1
	default:
		return 2
	}
}

// IsAssignment reports whether op writes a variable.
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpOrAssign
}

// compoundBase maps a compound assignment to the binary operator it applies.
var compoundBase = map[Operator]Operator{
	OpAddAssign: OpAdd,
	OpSubAssign: OpSub,
	OpMulAssign: OpMul,
	OpDivAssign: OpDiv,
	OpModAssign: OpMod,
	OpExpAssign: OpExp,
	OpAndAssign: OpAnd,
	OpOrAssign:  OpOr,
}

// binaryTokens maps binary operator tokens to tree operators.
var binaryTokens = map[TokenKind]Operator{
	TokenPlus:          OpAdd,
	TokenMinus:         OpSub,
	TokenStar:          OpMul,
	TokenSlash:         OpDiv,
	TokenPercent:       OpMod,
	TokenHat:           OpExp,
	TokenEq:            OpEq,
	TokenNeq:           OpNeq,
	TokenGt:            OpGt,
	TokenLt:            OpLt,
	TokenGeq:           OpGeq,
	TokenLeq:           OpLeq,
	TokenAnd:           OpAnd,
	TokenOr:            OpOr,
	TokenAssign:        OpAssign,
	TokenPlusAssign:    OpAddAssign,
	TokenMinusAssign:   OpSubAssign,
	TokenStarAssign:    OpMulAssign,
	TokenSlashAssign:   OpDivAssign,
	TokenPercentAssign: OpModAssign,
	TokenHatAssign:     OpExpAssign,
	TokenAndAssign:     OpAndAssign,
	TokenOrAssign:      OpOrAssign,
}
