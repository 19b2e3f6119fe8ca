package hierarchy

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/q2ls/errors"
)

// Gateway is the boundary for all interactions with the target CLI's
// introspection surface. It builds the command hierarchy either from a
// pre-generated JSON file or by running a configured introspection command,
// and it serves `--help` text for hover.
type Gateway struct {
	// CLIName is the literal command name invocations start with ("qiime").
	CLIName string

	// IntrospectCommand is a shell-quoted command line whose stdout is the
	// hierarchy as JSON, e.g. "python -m q2lsp.introspect".
	IntrospectCommand string

	// HierarchyFile, when set, is read instead of running IntrospectCommand.
	HierarchyFile string

	// BuildTimeout bounds one introspection run.
	BuildTimeout time.Duration

	logger  *zap.SugaredLogger
	limiter *rate.Limiter
}

// NewGateway creates a gateway. helpPerSecond bounds subprocess `--help`
// invocations from hover; a hovering user can sweep across a line far
// faster than exec can keep up.
func NewGateway(cliName string, log *zap.SugaredLogger, helpPerSecond float64) *Gateway {
	if helpPerSecond <= 0 {
		helpPerSecond = 4
	}
	return &Gateway{
		CLIName:      cliName,
		BuildTimeout: 2 * time.Minute,
		logger:       log,
		limiter:      rate.NewLimiter(rate.Limit(helpPerSecond), 1),
	}
}

// BuildHierarchy builds the command hierarchy, logging start, duration,
// and failure the same way for both sources.
func (g *Gateway) BuildHierarchy() (Hierarchy, error) {
	g.logger.Debugw("Starting hierarchy build",
		"cli", g.CLIName,
		"file", g.HierarchyFile,
		"command", g.IntrospectCommand,
	)
	start := time.Now()

	h, err := g.buildHierarchy()
	if err != nil {
		g.logger.Errorw("Hierarchy build failed",
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	g.logger.Infow("Hierarchy build completed",
		"duration", time.Since(start),
		"roots", len(h),
	)
	return h, nil
}

func (g *Gateway) buildHierarchy() (Hierarchy, error) {
	if g.HierarchyFile != "" {
		data, err := os.ReadFile(g.HierarchyFile)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read hierarchy file %s", g.HierarchyFile)
		}
		return decodeHierarchy(data)
	}

	if g.IntrospectCommand == "" {
		return nil, errors.WithHint(
			errors.New("no hierarchy source configured"),
			"set hierarchy.file or hierarchy.command in the q2ls config",
		)
	}

	words, err := shellquote.Split(g.IntrospectCommand)
	if err != nil {
		return nil, errors.Wrapf(err, "malformed introspection command %q", g.IntrospectCommand)
	}
	if len(words) == 0 {
		return nil, errors.New("empty introspection command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.BuildTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrapf(errors.ErrTimeout,
				"introspection command exceeded %s: %s", g.BuildTimeout, g.IntrospectCommand)
		}
		return nil, errors.Wrapf(err, "introspection command failed: %s", g.IntrospectCommand)
	}
	return decodeHierarchy(out)
}

func decodeHierarchy(data []byte) (Hierarchy, error) {
	var h Hierarchy
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, errors.Wrap(err, "failed to decode hierarchy JSON")
	}
	if len(h) == 0 {
		return nil, errors.New("hierarchy JSON has no root node")
	}
	return h, nil
}

// HelpProvider resolves help text for a command path of 0..2 elements,
// or nil when none is available.
type HelpProvider func(commandPath []string) *string

// NewHelpProvider returns a HelpProvider that execs
// `<cli> <path...> --help` and sanitizes the output. Returns nil on any
// failure or when the rate limit is exhausted; hover silently degrades.
func (g *Gateway) NewHelpProvider() HelpProvider {
	return func(commandPath []string) *string {
		if !g.limiter.Allow() {
			g.logger.Debugw("Help invocation rate-limited", "path", commandPath)
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		args := append(append([]string{}, commandPath...), "--help")
		out, err := exec.CommandContext(ctx, g.CLIName, args...).Output()
		if err != nil {
			g.logger.Debugw("Help invocation failed", "path", commandPath, "error", err)
			return nil
		}

		text := SanitizeHelpText(string(out))
		if text == "" {
			return nil
		}
		return &text
	}
}

var ansiEscapes = regexp.MustCompile(`\x1b\[[0-9;]*[mK]`)

// SanitizeHelpText strips ANSI escape sequences and control characters
// (keeping newlines and tabs) so help output is safe for hover display.
func SanitizeHelpText(text string) string {
	text = ansiEscapes.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r < 32 && r != '\n' && r != '\t') || r == 127 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
