package engine

import "testing"

func TestOperationBudget(t *testing.T) {
	b := NewOperationBudget(2)

	if !b.HasRemaining() || b.Remaining() != 2 || b.Consumed() != 0 {
		t.Fatalf("fresh budget: remaining=%d consumed=%d", b.Remaining(), b.Consumed())
	}

	b.Consume()
	b.Consume()
	if b.HasRemaining() {
		t.Error("budget should be exhausted after two operations")
	}

	// Exhausted budgets clamp instead of going negative.
	b.Consume()
	if b.Remaining() != 0 || b.Consumed() != 2 {
		t.Errorf("after over-consuming: remaining=%d consumed=%d, want 0 and 2", b.Remaining(), b.Consumed())
	}
}

func TestOperationBudgetNegativeSize(t *testing.T) {
	b := NewOperationBudget(-5)
	if b.HasRemaining() {
		t.Error("a negative budget size means zero operations")
	}
}

func TestOperationCounter(t *testing.T) {
	var c OperationCounter
	c.Consume()
	c.Consume()
	c.Consume()
	if c.Consumed() != 3 {
		t.Errorf("consumed = %d, want 3", c.Consumed())
	}
}
