package main_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	main "github.com/fwojciec/diffpaint/cmd/diffpaint"
	"github.com/fwojciec/diffpaint/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_Run_WithoutPager(t *testing.T) {
	t.Parallel()

	input := "diff --git a/file.txt b/file.txt\n"
	var out bytes.Buffer
	var rendered string

	app := &main.App{
		Stdin:  strings.NewReader(input),
		Stdout: &out,
		Renderer: &mock.Renderer{
			RunFn: func(ctx context.Context, r io.Reader, w io.Writer) error {
				data, _ := io.ReadAll(r)
				rendered = string(data)
				_, err := io.WriteString(w, "painted\n")
				return err
			},
		},
	}

	err := app.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, input, rendered, "renderer should receive stdin content")
	assert.Equal(t, "painted\n", out.String())
}

func TestApp_Run_ThroughPager(t *testing.T) {
	t.Parallel()

	var out, paged bytes.Buffer
	app := &main.App{
		Stdin:  strings.NewReader("input"),
		Stdout: &out,
		Renderer: &mock.Renderer{
			RunFn: func(ctx context.Context, r io.Reader, w io.Writer) error {
				_, err := io.WriteString(w, "painted\n")
				return err
			},
		},
		Pager: &mock.Pager{
			PageFn: func(ctx context.Context, render func(w io.Writer) error) error {
				return render(&paged)
			},
		},
	}

	err := app.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "painted\n", paged.String(), "output should go to the pager")
	assert.Empty(t, out.String())
}

func TestApp_Run_RenderError(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("write output: disk full")
	app := &main.App{
		Stdin:  strings.NewReader(""),
		Stdout: io.Discard,
		Renderer: &mock.Renderer{
			RunFn: func(ctx context.Context, r io.Reader, w io.Writer) error {
				return renderErr
			},
		},
	}

	err := app.Run(context.Background())

	assert.Equal(t, renderErr, err)
}

func TestApp_Run_PagerError(t *testing.T) {
	t.Parallel()

	pagerErr := errors.New("no terminal")
	app := &main.App{
		Stdin:    strings.NewReader(""),
		Stdout:   io.Discard,
		Renderer: &mock.Renderer{},
		Pager: &mock.Pager{
			PageFn: func(ctx context.Context, render func(w io.Writer) error) error {
				return pagerErr
			},
		},
	}

	err := app.Run(context.Background())

	assert.Equal(t, pagerErr, err)
}

func TestApp_Run_PassesContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	var seen any
	app := &main.App{
		Stdin:  strings.NewReader(""),
		Stdout: io.Discard,
		Renderer: &mock.Renderer{
			RunFn: func(ctx context.Context, r io.Reader, w io.Writer) error {
				seen = ctx.Value(key{})
				return nil
			},
		},
	}

	require.NoError(t, app.Run(ctx))
	assert.Equal(t, "v", seen)
}
