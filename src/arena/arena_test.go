package arena

import "testing"

func TestAllocateReturnsZeroedSlot(t *testing.T) {
	a := New(4)
	o := a.Allocate()
	if o.Id != 0 || o.Quantity != 0 {
		t.Fatalf("expected zeroed order, got %+v", o)
	}
}

func TestAllocateCountsAcrossBlocks(t *testing.T) {
	a := New(4)
	for i := 0; i < 10; i++ {
		a.Allocate()
	}
	if got := a.AllocatedCount(); got != 10 {
		t.Errorf("expected allocated count 10, got %d", got)
	}
}

func TestAllocatedPointersStayValidAcrossBlockGrowth(t *testing.T) {
	a := New(2)
	first := a.Allocate()
	first.Id = 7
	for i := 0; i < 10; i++ {
		a.Allocate()
	}
	if first.Id != 7 {
		t.Errorf("expected pointer from first allocation to stay valid, got id %d", first.Id)
	}
}

func TestResetKeepsMemoryButLogicallyEmpties(t *testing.T) {
	a := New(4)
	for i := 0; i < 20; i++ {
		a.Allocate()
	}
	usageBefore := a.MemoryUsage()

	a.Reset()

	if got := a.AllocatedCount(); got != 0 {
		t.Errorf("expected allocated count 0 after reset, got %d", got)
	}
	if a.MemoryUsage() != usageBefore {
		t.Errorf("expected memory usage to stay at %d after reset, got %d", usageBefore, a.MemoryUsage())
	}
}

func TestResetZeroesSlots(t *testing.T) {
	a := New(4)
	o := a.Allocate()
	o.Id = 42
	a.Reset()
	o2 := a.Allocate()
	if o2.Id != 0 {
		t.Errorf("expected reused slot to be zeroed, got id %d", o2.Id)
	}
}

func TestDefaultBlockSizeUsedWhenNonPositive(t *testing.T) {
	a := New(0)
	if a.blockSize != DefaultBlockSize {
		t.Errorf("expected default block size %d, got %d", DefaultBlockSize, a.blockSize)
	}
}
