package shell

// ctrlKind distinguishes a node's plain exit status from one of the
// control-flow outcomes spec §4.4's execute(tree) contract names:
// Status ∈ {Ok, Break(n), Continue(n), Return(code), Exit(code),
// Error(message)}. Go's own call stack plays the role "propagate up
// until handled" describes — grounded on the teacher's
// exitSignal/continueSignal/breakSignal boolean fields
// (internal/interp/interpreter.go), generalized here to a single tagged
// value instead of three independent booleans, since a shell additionally
// needs a break/continue level count and a return/exit status.
type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlBreak
	ctrlContinue
	ctrlReturn
	ctrlExit
)

// control is what every executor method returns alongside a status: Kind
// == ctrlNone means "ran to completion, status is final"; any other kind
// means a sequencing construct above must stop and propagate without
// looking at status, except for pulling it back out when it finally
// lands (a `return` becomes the caller's exit status, an `exit` becomes
// the whole shell's).
type control struct {
	kind ctrlKind
	n    int // loop levels remaining for ctrlBreak/ctrlContinue
}

// none is the zero value, spelled out for readability at call sites.
var none = control{}

// decrement consumes one level of a break/continue, turning it back into
// ctrlNone once its count reaches zero (the loop it names has been
// found).
func (c control) decrement() control {
	if c.n <= 1 {
		return none
	}
	return control{kind: c.kind, n: c.n - 1}
}
