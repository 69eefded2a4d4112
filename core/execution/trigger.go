package execution

import (
	"fmt"

	"go.dedis.ch/ledgertx/core/txn"
	"go.dedis.ch/ledgertx/core/txn/rejection"
)

// DefaultMaxDepth is the default depth bound of the chained data triggers.
const DefaultMaxDepth = 32

// DefaultMaxSteps is the default number of data trigger steps that an
// entrypoint can fire.
const DefaultMaxSteps = 1024

// TriggerChain records the data trigger steps of the execution of an
// entrypoint. A data trigger fired by the entrypoint is at depth one, and a
// trigger fired by a trigger at depth n is at depth n+1.
type TriggerChain struct {
	maxDepth int
	maxSteps int
	fired    int
	steps    []txn.DataTriggerStep
}

// NewTriggerChain returns an empty chain that accepts steps up to the depth,
// and at most the given number of steps. A non-positive number of steps leaves
// the chain bounded only by the depth.
func NewTriggerChain(maxDepth, maxSteps int) *TriggerChain {
	return &TriggerChain{
		maxDepth: maxDepth,
		maxSteps: maxSteps,
	}
}

// MaxDepth returns the depth bound.
func (c *TriggerChain) MaxDepth() int {
	return c.maxDepth
}

// Fire reserves a step fired at the given depth before it runs. It returns the
// rejection of the entrypoint when the depth exceeds the bound, or when the
// entrypoint has fired more steps than allowed.
func (c *TriggerChain) Fire(depth int) error {
	if depth > c.maxDepth {
		return rejection.TriggerExecution{Fail: rejection.MaxDepthExceeded}
	}

	if c.maxSteps > 0 && c.fired >= c.maxSteps {
		return rejection.Validation{Fail: rejection.ValidationFail{
			Kind:   rejection.TooComplex,
			Reason: fmt.Sprintf("more than %d data trigger steps", c.maxSteps),
		}}
	}

	c.fired++

	return nil
}

// Fired returns the number of reserved steps.
func (c *TriggerChain) Fired() int {
	return c.fired
}

// Record appends the step fired at the given depth. It returns the rejection
// of the entrypoint when the depth exceeds the bound.
func (c *TriggerChain) Record(depth int, step txn.DataTriggerStep) error {
	if depth > c.maxDepth {
		return rejection.TriggerExecution{Fail: rejection.MaxDepthExceeded}
	}

	c.steps = append(c.steps, step)

	return nil
}

// Len returns the number of recorded steps.
func (c *TriggerChain) Len() int {
	return len(c.steps)
}

// Sequence returns the recorded steps in their order of execution.
func (c *TriggerChain) Sequence() txn.DataTriggerSequence {
	return txn.NewDataTriggerSequence(c.steps...)
}

// Result returns the successful result of the recorded steps.
func (c *TriggerChain) Result() txn.Result {
	return txn.NewOk(c.Sequence())
}
