package safe

import (
	"log/slog"
	"runtime/debug"
)

// Run 执行 fn 并吞掉 panic，记录调用栈
func Run(fn func()) {
	RunWithLog(fn, "safe.Run")
}

// RunWithLog 同 Run，日志中带上组件名
func RunWithLog(fn func(), component string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", component),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}

// Go 在新的 goroutine 中执行 fn
func Go(fn func(), component string) {
	go RunWithLog(fn, component)
}
