package engine

// OperationBudget bounds how many platform calls a run may make. It is
// consulted before each unit of work and decremented after each
// accounted call; once it reaches zero the batch driver stops issuing
// new work, mid-page included.
type OperationBudget struct {
	total     int
	remaining int
}

// NewOperationBudget creates a budget of n operations.
func NewOperationBudget(n int) *OperationBudget {
	if n < 0 {
		n = 0
	}
	return &OperationBudget{total: n, remaining: n}
}

// Consume spends one operation. The counter never goes negative.
func (b *OperationBudget) Consume() {
	if b.remaining > 0 {
		b.remaining--
	}
}

// HasRemaining reports whether any operations are left.
func (b *OperationBudget) HasRemaining() bool {
	return b.remaining > 0
}

// Remaining returns the number of operations left.
func (b *OperationBudget) Remaining() int {
	return b.remaining
}

// Consumed returns the number of operations spent so far.
func (b *OperationBudget) Consumed() int {
	return b.total - b.remaining
}

// OperationCounter tracks platform calls consumed by a single issue.
// Unlike the run-wide budget it only counts up and never blocks.
type OperationCounter struct {
	consumed int
}

// Consume records one platform call.
func (c *OperationCounter) Consume() {
	c.consumed++
}

// Consumed returns how many calls this issue has used.
func (c *OperationCounter) Consumed() int {
	return c.consumed
}
