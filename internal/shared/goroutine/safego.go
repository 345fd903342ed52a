// Package goroutine launches background work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/pixamint/pixamint/internal/shared/logger"
)

// SafeGo runs fn on a new goroutine. A panic inside fn is logged with its
// stack trace instead of taking down the process; name identifies the
// goroutine in that log line.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("goroutine panicked",
					"goroutine", name,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
