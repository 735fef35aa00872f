package register

import "sync"

// registry 在 init 阶段收集各模块的装配函数，启动时按 key 统一取出执行
// 例如 sqlstore 的各个 store、process 的定时任务
type registry struct {
	mu       sync.Mutex
	handlers map[any][]any
}

var reg = &registry{
	handlers: make(map[any][]any),
}

type Handler[T any] func(T)

// RegisterFunc 同一个 key 下按注册顺序保存
func RegisterFunc[T any](key any, handler Handler[T]) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.handlers[key] = append(reg.handlers[key], handler)
}

// ResolveFuncHandlers 只返回参数类型为 T 的处理函数
func ResolveFuncHandlers[T any](key any) []Handler[T] {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	result := make([]Handler[T], 0, len(reg.handlers[key]))
	for _, v := range reg.handlers[key] {
		if h, ok := v.(Handler[T]); ok {
			result = append(result, h)
		}
	}
	return result
}

// Count 返回 key 下已注册的处理函数数量
func Count(key any) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.handlers[key])
}
