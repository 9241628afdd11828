package index

import (
	"fmt"
	"os"
	"sync"
)

var (
	globalOnce  sync.Once
	globalIdx   *Index
	globalErr   error
	globalInit  bool
	globalGuard sync.Mutex
)

// InitGlobal builds the process-global Index from path exactly once. Every
// call after the first returns an error without touching the already
// published Index: the API server's handlers all read the same immutable
// snapshot for the life of the process.
func InitGlobal(path string) error {
	globalGuard.Lock()
	alreadyInitialized := globalInit
	globalGuard.Unlock()
	if alreadyInitialized {
		return fmt.Errorf("index already initialized")
	}

	globalOnce.Do(func() {
		globalGuard.Lock()
		globalInit = true
		globalGuard.Unlock()

		f, err := os.Open(path)
		if err != nil {
			globalErr = fmt.Errorf("open aggregate csv: %w", err)
			return
		}
		defer f.Close()

		globalIdx, globalErr = Load(f)
	})
	return globalErr
}

// Global returns the process-global Index. It must be called only after
// InitGlobal has succeeded.
func Global() (*Index, error) {
	if globalErr != nil {
		return nil, globalErr
	}
	if globalIdx == nil {
		return nil, fmt.Errorf("index not initialized")
	}
	return globalIdx, nil
}
