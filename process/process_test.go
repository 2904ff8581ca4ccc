package process_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/fwojciec/diffpaint/process"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_GetBeforeAndAfterLookup(t *testing.T) {
	t.Parallel()
	defer leaktest.Check(t)()

	release := make(chan struct{})
	cell := process.StartLookup(42, func(pid int) (process.Info, error) {
		<-release
		return process.Info{PID: pid, Exec: "git", Args: []string{"git", "diff"}}, nil
	})

	_, ok := cell.Get()
	assert.False(t, ok, "Get does not wait for the lookup")

	close(release)
	info, err := cell.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, info.PID)
	assert.Equal(t, "git diff", info.String())

	got, ok := cell.Get()
	assert.True(t, ok)
	assert.Equal(t, info, got)
}

func TestCell_LookupError(t *testing.T) {
	t.Parallel()
	defer leaktest.Check(t)()

	cell := process.StartLookup(1, func(int) (process.Info, error) {
		return process.Info{}, errors.New("gone")
	})

	_, err := cell.Wait(context.Background())
	assert.EqualError(t, err, "gone")
	_, ok := cell.Get()
	assert.False(t, ok)
}

func TestCell_WaitHonorsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	cell := process.StartLookup(1, func(int) (process.Info, error) {
		<-release
		return process.Info{}, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := cell.Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLookup_Self(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat("/proc/self/cmdline"); err != nil {
		t.Skip("procfs not available")
	}

	info, err := process.Lookup(os.Getpid())

	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), info.PID)
	assert.NotEmpty(t, info.Args)
}

func TestParseCmdline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want []string
	}{
		{"empty", "", nil},
		{"single", "less\x00", []string{"less"}},
		{"with args", "git\x00diff\x00--color=always\x00", []string{"git", "diff", "--color=always"}},
		{"empty argument", "git\x00\x00log\x00", []string{"git", "", "log"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, process.ParseCmdline([]byte(tt.data)))
		})
	}
}

func TestInfo_StringFallsBackToExec(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "git", process.Info{Exec: "git"}.String())
}
