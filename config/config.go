// Package config resolves diffpaint settings from built-in defaults, an
// optional JSON file and command-line flags, in that order.
package config

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/stylespec"
	"github.com/fwojciec/diffpaint/worddiff"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Paging modes.
const (
	PagingAuto   = "auto"
	PagingAlways = "always"
	PagingNever  = "never"
)

// ColorProfiles lists the accepted values of Config.ColorProfile.
var ColorProfiles = []string{"auto", "ascii", "ansi", "ansi256", "truecolor"}

// Config holds every tunable setting.
type Config struct {
	// MaxLineDistance is the dissimilarity G above which a minus and a plus
	// line are never paired, in (0, 1].
	MaxLineDistance float64 `json:"max-line-distance"`
	// MaxBlockLines is the alignment ceiling. Zero disables it.
	MaxBlockLines  int                       `json:"max-block-lines"`
	MinEqualTokens int                       `json:"min-equal-tokens"`
	Width          int                       `json:"width"` // Zero uses the terminal width, negative disables wrapping
	WordMode       string                    `json:"word-mode"`
	WordRegexp     string                    `json:"word-regexp"`
	TabWidth       int                       `json:"tab-width"`
	LineNumbers    bool                      `json:"line-numbers"`
	Markers        bool                      `json:"markers"`
	Decorations    bool                      `json:"decorations"`
	Theme          string                    `json:"theme"`
	SyntaxTheme    string                    `json:"syntax-theme"` // A chroma style name, empty for the theme palette
	Features       []string                  `json:"features"`
	Styles         map[diffpaint.Role]string `json:"styles"`
	Paging         string                    `json:"paging"`
	ColorProfile   string                    `json:"color-profile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxLineDistance: 0.6,
		MaxBlockLines:   512,
		MinEqualTokens:  2,
		WordMode:        "word",
		TabWidth:        4,
		Markers:         true,
		Decorations:     true,
		Theme:           "dark",
		Paging:          PagingAuto,
		ColorProfile:    "auto",
	}
}

// DefaultPath returns the default configuration file location.
// Uses XDG_CONFIG_HOME if set, otherwise falls back to ~/.config/diffpaint,
// or an empty path if home is unavailable.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "diffpaint", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "diffpaint", "config.json")
}

// Load reads the JSON file at path over the defaults. A missing file is not
// an error. Unknown fields are.
func Load(path string, log logrus.FieldLogger) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Debug("no config file")
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	log.WithField("path", path).Debug("loaded config")
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.MaxLineDistance <= 0 || c.MaxLineDistance > 1 {
		return errors.Errorf("max-line-distance must be in (0, 1], got %g", c.MaxLineDistance)
	}
	if c.MaxBlockLines < 0 {
		return errors.Errorf("max-block-lines must not be negative, got %d", c.MaxBlockLines)
	}
	if c.MinEqualTokens < 0 {
		return errors.Errorf("min-equal-tokens must not be negative, got %d", c.MinEqualTokens)
	}
	if c.TabWidth < 1 {
		return errors.Errorf("tab-width must be positive, got %d", c.TabWidth)
	}
	if _, err := worddiff.ParseMode(c.WordMode); err != nil {
		return err
	}
	if c.WordRegexp != "" {
		if _, err := regexp.Compile(c.WordRegexp); err != nil {
			return errors.Wrap(err, "word-regexp")
		}
	}
	for _, name := range c.Features {
		if _, ok := stylespec.Feature(name); !ok {
			return errors.Errorf("unknown feature %q (available: %s)", name, strings.Join(stylespec.Features(), ", "))
		}
	}
	switch c.Paging {
	case PagingAuto, PagingAlways, PagingNever:
	default:
		return errors.Errorf("paging must be auto, always or never, got %q", c.Paging)
	}
	if !contains(ColorProfiles, c.ColorProfile) {
		return errors.Errorf("unknown color profile %q", c.ColorProfile)
	}
	return nil
}

// Layers returns the style layers to resolve over the built-in defaults:
// the theme, then each feature, then the user's own overrides.
func (c Config) Layers(theme diffpaint.Theme) []stylespec.Layer {
	var layers []stylespec.Layer
	if theme != nil {
		layers = append(layers, stylespec.Layer{Name: "theme " + theme.Name(), Specs: theme.Layer()})
	}
	for _, name := range c.Features {
		if l, ok := stylespec.Feature(name); ok {
			layers = append(layers, l)
		}
	}
	if len(c.Styles) > 0 {
		layers = append(layers, stylespec.Layer{Name: "user", Specs: c.Styles})
	}
	return layers
}

// Bind registers a flag for every setting on flags, writing into c.
func (c *Config) Bind(flags *flag.FlagSet) {
	flags.Float64Var(&c.MaxLineDistance, "max-line-distance", c.MaxLineDistance, "dissimilarity above which lines are not paired")
	flags.IntVar(&c.MaxBlockLines, "max-block-lines", c.MaxBlockLines, "largest change block to align, 0 for no limit")
	flags.IntVar(&c.MinEqualTokens, "min-equal-tokens", c.MinEqualTokens, "shorter unchanged runs inside a change are emphasized")
	flags.IntVar(&c.Width, "width", c.Width, "wrap width, 0 for the terminal width, negative to disable wrapping")
	flags.StringVar(&c.WordMode, "word-mode", c.WordMode, "intra-line tokenization: word or char")
	flags.StringVar(&c.WordRegexp, "word-regexp", c.WordRegexp, "regular expression matching intra-line tokens")
	flags.IntVar(&c.TabWidth, "tabs", c.TabWidth, "tab stop width")
	flags.BoolVar(&c.LineNumbers, "line-numbers", c.LineNumbers, "show line numbers")
	flags.BoolVar(&c.Markers, "markers", c.Markers, "keep the +/- markers")
	flags.BoolVar(&c.Decorations, "decorations", c.Decorations, "draw file and hunk header rules")
	flags.StringVar(&c.Theme, "theme", c.Theme, "color theme: dark or light")
	flags.StringVar(&c.SyntaxTheme, "syntax-theme", c.SyntaxTheme, "chroma style for syntax highlighting")
	flags.Var((*listValue)(&c.Features), "features", "comma-separated style features")
	flags.Var((*styleValue)(&c.Styles), "style", "role=spec style override, repeatable")
	flags.StringVar(&c.Paging, "paging", c.Paging, "auto, always or never")
	flags.StringVar(&c.ColorProfile, "color", c.ColorProfile, "color profile: "+strings.Join(ColorProfiles, ", "))
}

// Overlay returns base with every configuration flag that was set on flags
// applied to it. flags must have been bound with Bind; other flags on the set
// are ignored.
func Overlay(base Config, flags *flag.FlagSet) (Config, error) {
	out := base
	out.Features = append([]string(nil), base.Features...)
	out.Styles = make(map[diffpaint.Role]string, len(base.Styles))
	for r, s := range base.Styles {
		out.Styles[r] = s
	}

	target := flag.NewFlagSet("overlay", flag.ContinueOnError)
	out.Bind(target)
	var err error
	flags.Visit(func(f *flag.Flag) {
		if err != nil || target.Lookup(f.Name) == nil {
			return
		}
		if setErr := target.Set(f.Name, f.Value.String()); setErr != nil {
			err = errors.Wrapf(setErr, "flag -%s", f.Name)
		}
	})
	return out, err
}

// listValue is a comma-separated list flag.
type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	*l = nil
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}

// styleValue collects role=spec pairs.
type styleValue map[diffpaint.Role]string

func (v *styleValue) String() string {
	if v == nil || *v == nil {
		return ""
	}
	roles := make([]string, 0, len(*v))
	for r := range *v {
		roles = append(roles, string(r))
	}
	sort.Strings(roles)
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = fmt.Sprintf("%s=%s", r, (*v)[diffpaint.Role(r)])
	}
	return strings.Join(parts, ";")
}

func (v *styleValue) Set(s string) error {
	if *v == nil {
		*v = make(map[diffpaint.Role]string)
	}
	for _, part := range strings.Split(s, ";") {
		if part == "" {
			continue
		}
		role, spec, ok := strings.Cut(part, "=")
		if !ok {
			return errors.Errorf("style override %q is not role=spec", part)
		}
		(*v)[diffpaint.Role(strings.TrimSpace(role))] = spec
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
