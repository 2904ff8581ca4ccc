package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// childArgsEnv makes the test binary act as diffpaint, with the
// space-separated arguments it holds.
const childArgsEnv = "DIFFPAINT_CHILD_ARGS"

func TestMain(m *testing.M) {
	if args, ok := os.LookupEnv(childArgsEnv); ok {
		os.Exit(run(strings.Fields(args)))
	}
	os.Exit(m.Run())
}

func command(args ...string) *exec.Cmd {
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), childArgsEnv+"="+strings.Join(args, " "))
	return cmd
}

func hunks(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "@@ -%d +%d @@\n-old line %d\n+new line %d\n", i, i, i, i)
	}
	return b.String()
}

func TestRun_ClosedStdoutExitsCleanly(t *testing.T) {
	t.Parallel()

	cmd := command("-config=", "-paging", "never", "-color", "ascii")
	cmd.Stdin = strings.NewReader(hunks(20000))
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	_, err = io.ReadFull(stdout, make([]byte, 10))
	require.NoError(t, err)
	require.NoError(t, stdout.Close())

	assert.NoError(t, cmd.Wait(), "a reader going away is not an error")
}

func TestRun_DebugFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	cmd := command("-debug", "-config=", "-paging", "never", "-color", "ascii", "-decorations=false")
	cmd.Stdin = strings.NewReader("@@ -1 +1 @@\n-a\n+b\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), stderr.String())

	assert.Equal(t, "@@ -1 +1 @@\n-a\n+b\n", stdout.String())
	assert.Contains(t, stderr.String(), "rendered diff")
}

func TestRun_ConfigFile(t *testing.T) {
	t.Parallel()

	path := t.TempDir() + "/config.json"
	require.NoError(t, os.WriteFile(path, []byte(`{"line-numbers": true, "decorations": false}`), 0o600))

	var stdout bytes.Buffer
	cmd := command("-config", path, "-paging", "never", "-color", "ascii")
	cmd.Stdin = strings.NewReader("@@ -7 +7 @@\n-a\n+b\n")
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())

	assert.Contains(t, stdout.String(), "   7      -a\n")
	assert.Contains(t, stdout.String(), "        7 +b\n")
}

func TestRun_List(t *testing.T) {
	t.Parallel()

	out, err := command("-list", "features").Output()

	require.NoError(t, err)
	assert.Equal(t, "dim-context\nemph-bold\nemph-underline\n", string(out))
}

func TestRun_UnknownFlag(t *testing.T) {
	t.Parallel()

	cmd := command("-no-such-flag")
	cmd.Stdin = strings.NewReader("")

	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, exitError, exitErr.ExitCode())
}
