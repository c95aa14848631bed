// Package profile starts optional runtime profiling for ewwc.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag [Start] always returns a no-op [Stopper] and [Modes] is
// empty, so callers never need their own build constraints.
//
// With the tag, [Modes] lists the supported [github.com/pkg/profile] modes:
// allocs, block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
// Output is written below the directory given to [WithDir].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
