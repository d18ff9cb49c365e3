package gitcli

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

const (
	envConfigParameters = "GIT_CONFIG_PARAMETERS"
	envConfigNoSystem   = "GIT_CONFIG_NOSYSTEM"
	envConfigGlobal     = "GIT_CONFIG_GLOBAL"
	envConfigPrefix     = "GIT_CONFIG"
	envHome             = "HOME"
	envXDGConfigHome    = "XDG_CONFIG_HOME"

	// byteDriver is the diff driver name bound to the transcoded path.
	byteDriver = "guilt_bytes"

	attributesPattern = "guilt-attributes-*"
	globMetaChars     = `*?[\`
)

// blameConfig replaces the identity the host configuration provides and pins
// the blame line format against repository-local settings. --show-email
// still overrides blame.showemail.
var blameConfig = map[string]string{
	"user.name":       "guilt",
	"user.email":      "guilt@localhost",
	"blame.date":      "iso",
	"blame.showemail": "false",
}

// BlameOptions tunes a single blame invocation.
type BlameOptions struct {
	// Email attributes content to author emails instead of names.
	Email bool
	// IgnoreWhitespace ignores whitespace-only changes when attributing lines.
	IgnoreWhitespace bool
}

// BlameText attributes every line of path at rev.
// The output is git's default blame format, one line per content line.
func (r *Repository) BlameText(ctx context.Context, path, rev string, opts BlameOptions) ([]byte, error) {
	return r.blame(ctx, path, rev, opts, blameConfig)
}

// BlameBytes attributes every byte of path at rev.
// A temporary attributes file binds path alone to a textconv driver that
// emits one line per byte; nothing is written to the repository configuration.
func (r *Repository) BlameBytes(ctx context.Context, path, rev string, opts BlameOptions) ([]byte, error) {
	attrFile, err := os.CreateTemp("", attributesPattern)
	if err != nil {
		return nil, fmt.Errorf("create attributes file: %w", err)
	}

	defer os.Remove(attrFile.Name())

	_, writeErr := fmt.Fprintf(attrFile, "%s diff=%s\n", attributePattern(path), byteDriver)

	closeErr := attrFile.Close()
	if writeErr != nil {
		return nil, fmt.Errorf("write attributes file: %w", writeErr)
	}

	if closeErr != nil {
		return nil, fmt.Errorf("close attributes file: %w", closeErr)
	}

	params := make(map[string]string, len(blameConfig)+3)
	for k, v := range blameConfig {
		params[k] = v
	}

	params["diff."+byteDriver+".textconv"] = r.byteTextconv
	params["diff."+byteDriver+".cachetextconv"] = "false"
	params["core.attributesfile"] = attrFile.Name()

	return r.blame(ctx, path, rev, opts, params)
}

func (r *Repository) blame(
	ctx context.Context, path, rev string, opts BlameOptions, params map[string]string,
) ([]byte, error) {
	out, err := r.runner.Run(ctx, scopedEnv(os.Environ(), params), blameArgs(path, rev, opts)...)
	if err != nil {
		return nil, fmt.Errorf("blame %s:%s: %w", rev, path, err)
	}

	return out, nil
}

func blameArgs(path, rev string, opts BlameOptions) []string {
	args := []string{"blame"}

	if opts.Email {
		args = append(args, "--show-email")
	}

	if opts.IgnoreWhitespace {
		args = append(args, "-w")
	}

	args = append(args, "--encoding=utf-8")

	if rev != "" {
		args = append(args, rev)
	}

	return append(args, "--", path)
}

// scopedEnv strips host-level git configuration from base and injects params
// as command-line scoped configuration.
func scopedEnv(base []string, params map[string]string) []string {
	env := make([]string, 0, len(base)+3)

	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if key == envHome || key == envXDGConfigHome || strings.HasPrefix(key, envConfigPrefix) {
			continue
		}

		env = append(env, kv)
	}

	env = append(env,
		envConfigNoSystem+"=true",
		envConfigGlobal+"="+os.DevNull,
	)

	if len(params) > 0 {
		env = append(env, envConfigParameters+"="+formatConfigParameters(params))
	}

	return env
}

// formatConfigParameters renders params in GIT_CONFIG_PARAMETERS syntax,
// sorted by key for stable output.
func formatConfigParameters(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	quoted := make([]string, 0, len(keys))
	for _, k := range keys {
		quoted = append(quoted, shellQuote(k+"="+params[k]))
	}

	return strings.Join(quoted, " ")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// attributePattern anchors path at the repository root and escapes glob
// characters so the pattern matches that single path.
func attributePattern(path string) string {
	var b strings.Builder

	b.WriteByte('/')

	for _, r := range path {
		if strings.ContainsRune(globMetaChars, r) {
			b.WriteByte('\\')
		}

		b.WriteRune(r)
	}

	pattern := b.String()
	if strings.ContainsAny(pattern, " \t\"") {
		return strconv.Quote(pattern)
	}

	return pattern
}
