package plugin

import (
	"context"
	"sync"

	"mvdan.cc/sh/v3/interp"
)

// fakeShell records commands and answers from a table keyed by command line
type fakeShell struct {
	mu       sync.Mutex
	commands []string
	results  map[string]error
	panics   map[string]bool
	hang     map[string]bool
}

func newFakeShell() *fakeShell {
	return &fakeShell{
		results: map[string]error{},
		panics:  map[string]bool{},
		hang:    map[string]bool{},
	}
}

func (f *fakeShell) Quiet(ctx context.Context, command string) error {
	f.mu.Lock()
	f.commands = append(f.commands, command)
	f.mu.Unlock()

	if f.panics[command] {
		panic("boom")
	}
	if f.hang[command] {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.results[command]
}

func (f *fakeShell) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

var errNotFound = interp.NewExitStatus(1)
