package state

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCodeStructureCopyOnRead(t *testing.T) {
	s := New("file:///tmp/hello", "en", "./out")
	s.SetCodeStructure([]FileEntry{{Path: "a.go"}})

	got := s.CodeStructure()
	got[0].Path = "mutated"

	require.Equal(t, "a.go", s.CodeStructure()[0].Path, "mutating a returned copy must not affect the store")
}

// TestParallelBatchWriteIsolation grounds testable property #2: a parallel
// batch of size K with random execute-time sleeps still produces exactly K
// post-writes, no lost updates, order-independent since each worker owns a
// distinct key.
func TestParallelBatchWriteIsolation(t *testing.T) {
	s := New("file:///tmp/hello", "en", "./out")
	const k = 50

	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			time.Sleep(time.Duration(rand.Intn(2)) * time.Millisecond)
			s.SetModuleDetail(fmt.Sprintf("module-%d", i), fmt.Sprintf("detail-%d", i))
		}(i)
	}
	wg.Wait()

	details := s.AllModuleDetails()
	require.Len(t, details, k)
	for i := 0; i < k; i++ {
		require.Equal(t, fmt.Sprintf("detail-%d", i), details[fmt.Sprintf("module-%d", i)])
	}
}

func TestAppendErrorClassifiesFatal(t *testing.T) {
	s := New("file:///tmp/hello", "en", "./out")
	require.False(t, s.HasFatalError())

	s.AppendError(ErrorRecord{Stage: "PrepareRepo", Kind: ErrorKindWarning, Message: "skipped binary"})
	require.False(t, s.HasFatalError())

	s.AppendError(ErrorRecord{Stage: "PrepareRepo", Kind: ErrorKindFatal, Message: "disk full"})
	require.True(t, s.HasFatalError())
	require.Len(t, s.Errors(), 2)
}
