// Package process identifies the process that started diffpaint, typically
// the git command whose output is being rendered. The lookup runs in the
// background and its result is written once.
package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/gops/goprocess"
	"github.com/pkg/errors"
)

// Info describes a process.
type Info struct {
	PID  int
	Exec string   // Executable name
	Args []string // Command line, Args[0] included, when known
	// GoVersion is the Go toolchain the process was built with, empty for
	// non-Go programs.
	GoVersion string
}

// String returns the command line, or the executable name if it is unknown.
func (i Info) String() string {
	if len(i.Args) > 0 {
		return strings.Join(i.Args, " ")
	}
	return i.Exec
}

// LookupFunc returns information about the process with the given pid.
type LookupFunc func(pid int) (Info, error)

// Cell holds the result of a single lookup. It is written once, by the
// goroutine started with it, and may be read from any goroutine.
type Cell struct {
	done chan struct{}
	info Info
	err  error
}

// Start looks up the parent process in the background.
func Start() *Cell {
	return StartLookup(os.Getppid(), Lookup)
}

// StartLookup runs lookup for pid in the background.
func StartLookup(pid int, lookup LookupFunc) *Cell {
	c := &Cell{done: make(chan struct{})}
	go func() {
		defer close(c.done)
		c.info, c.err = lookup(pid)
	}()
	return c
}

// Get returns the lookup result if it is available. It never blocks.
func (c *Cell) Get() (Info, bool) {
	select {
	case <-c.done:
		return c.info, c.err == nil
	default:
		return Info{}, false
	}
}

// Wait blocks until the lookup completes or ctx is done.
func (c *Cell) Wait(ctx context.Context) (Info, error) {
	select {
	case <-c.done:
		return c.info, c.err
	case <-ctx.Done():
		return Info{}, ctx.Err()
	}
}

// Lookup describes pid, asking gops first so that Go programs report their
// toolchain version, then falling back to procfs.
func Lookup(pid int) (Info, error) {
	if p, ok, err := goprocess.Find(pid); err == nil && ok {
		info := Info{PID: p.PID, Exec: p.Exec, GoVersion: p.BuildVersion}
		if args, err := readCmdline(pid); err == nil {
			info.Args = args
		}
		return info, nil
	}
	args, err := readCmdline(pid)
	if err != nil {
		return Info{}, err
	}
	if len(args) == 0 {
		return Info{}, errors.Errorf("process %d: empty command line", pid)
	}
	return Info{PID: pid, Exec: filepath.Base(args[0]), Args: args}, nil
}

func readCmdline(pid int) ([]string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return nil, errors.Wrapf(err, "process %d", pid)
	}
	return ParseCmdline(data), nil
}

// ParseCmdline splits the NUL-separated contents of /proc/<pid>/cmdline.
func ParseCmdline(data []byte) []string {
	s := strings.TrimRight(string(data), "\x00")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}
