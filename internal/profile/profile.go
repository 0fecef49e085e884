// Package profile starts optional runtime profiling of a cuebasic run.
//
// Profiles are written by [github.com/pkg/profile] into a directory, one file
// per mode (cpu.pprof, mem.pprof, ...), and read back with go tool pprof.
package profile

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/profile"

	"github.com/mcncl/cuebasic/internal/errors"
)

var mode = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"clock":     profile.ClockProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes lists the accepted profiling modes in sorted order.
var Modes = sync.OnceValue(func() []string {
	return slices.Sorted(maps.Keys(mode))
})

// Stopper ends a profiling session and flushes its output.
type Stopper interface {
	Stop()
}

type ignore struct{}

func (ignore) Stop() {}

// Profiler describes one profiling session. An empty Mode disables
// profiling; an empty Path lets pkg/profile pick a temporary directory.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start begins profiling. The returned Stopper is never nil.
func (p Profiler) Start() (Stopper, error) {
	name := strings.ToLower(strings.TrimSpace(p.Mode))
	if name == "" {
		return ignore{}, nil
	}
	fn, ok := mode[name]
	if !ok {
		return ignore{}, errors.NewConfigError(
			fmt.Sprintf("invalid profile mode %q: must be one of %s", p.Mode, strings.Join(Modes(), ", ")),
			nil,
		)
	}

	opts := []func(*profile.Profile){fn, profile.NoShutdownHook}
	if p.Path != "" {
		opts = append(opts, profile.ProfilePath(p.Path))
	}
	if p.Quiet {
		opts = append(opts, profile.Quiet)
	}
	return profile.Start(opts...), nil
}
