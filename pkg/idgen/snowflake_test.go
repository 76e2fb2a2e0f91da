package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDUnique(t *testing.T) {
	const count = 5000

	seen := make(map[int64]struct{}, count)
	for i := 0; i < count; i++ {
		id := NextID()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
}

// TestGenerateOperationNoUnique hammers the generator from several
// goroutines: operation numbers back a unique index, so a single collision
// would fail a committed mutation.
func TestGenerateOperationNoUnique(t *testing.T) {
	const (
		workers = 4
		perG    = 2000
	)

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perG)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perG)
			for j := 0; j < perG; j++ {
				local = append(local, GenerateOperationNo())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, no := range local {
				seen[no] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perG, "operation numbers must never collide")
}

func TestGenerateOperationNoFormat(t *testing.T) {
	no := GenerateOperationNo()
	assert.Regexp(t, `^OP\d{14}\d+$`, no)
}
