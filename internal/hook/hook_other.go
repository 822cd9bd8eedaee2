//go:build !windows

package hook

import (
	"fmt"
	"runtime"
)

// System returns the process-wide hooker. Native window event hooks only
// exist on Windows; elsewhere every Register fails with ErrUnsupported.
func System() Hooker {
	return nullHooker{}
}

type nullHooker struct{}

func (nullHooker) Register(Filter) (Subscription, error) {
	return nil, fmt.Errorf("%w (%s)", ErrUnsupported, runtime.GOOS)
}
