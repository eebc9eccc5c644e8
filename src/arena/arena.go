// Package arena provides stable, fast allocation of Order records for
// the lifetime of a backtest run, grounded on the original memory
// pool: a growing sequence of fixed-capacity blocks instead of one
// allocation per order.
package arena

import (
	"unsafe"

	"backtest-engine/src/types"
)

// DefaultBlockSize matches the original memory pool's default.
const DefaultBlockSize = 4096

// Arena allocates types.Order records in fixed-size blocks. Once
// Allocate returns a pointer, that pointer stays valid until the
// Arena is garbage collected — blocks are only ever appended, never
// moved or shrunk, so existing pointers never dangle.
type Arena struct {
	blockSize    int
	blocks       []block
	currentBlock int
	currentIndex int
}

type block struct {
	orders []types.Order
}

// New creates an Arena with the given per-block capacity. A
// non-positive size falls back to DefaultBlockSize.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	a := &Arena{blockSize: blockSize}
	a.allocateBlock()
	return a
}

// Allocate returns a pointer to a zeroed Order slot. The caller must
// populate every field before handing the pointer to a book.
func (a *Arena) Allocate() *types.Order {
	if a.currentIndex >= a.blockSize {
		a.allocateBlock()
	}
	b := &a.blocks[a.currentBlock]
	order := &b.orders[a.currentIndex]
	a.currentIndex++
	return order
}

// Reset logically empties the arena without releasing the underlying
// blocks, so a subsequent run can reuse the memory.
func (a *Arena) Reset() {
	for i := range a.blocks {
		for j := range a.blocks[i].orders {
			a.blocks[i].orders[j] = types.Order{}
		}
	}
	a.currentBlock = 0
	a.currentIndex = 0
}

// AllocatedCount returns the number of orders allocated so far.
func (a *Arena) AllocatedCount() int {
	return a.currentBlock*a.blockSize + a.currentIndex
}

// MemoryUsage returns the total bytes backing every block, allocated
// or not.
func (a *Arena) MemoryUsage() int {
	return len(a.blocks) * a.blockSize * orderSize
}

const orderSize = int(unsafe.Sizeof(types.Order{}))

func (a *Arena) allocateBlock() {
	if a.currentBlock+1 < len(a.blocks) {
		a.currentBlock++
		a.currentIndex = 0
		return
	}
	a.blocks = append(a.blocks, block{orders: make([]types.Order, a.blockSize)})
	a.currentBlock = len(a.blocks) - 1
	a.currentIndex = 0
}
