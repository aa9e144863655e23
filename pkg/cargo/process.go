package cargo

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/matzehuels/featurehack/pkg/errors"
)

// Process describes one cargo invocation. Builder methods mutate and return
// the receiver so calls can be chained; use [Process.Clone] to fork a base
// command per feature combination.
type Process struct {
	program             string
	args                []string
	features            []string
	trailing            []string
	manifestPath        string
	displayManifestPath bool
	dir                 string
	stdout              io.Writer
	stderr              io.Writer
}

// NewProcess returns an invocation of program with no arguments.
func NewProcess(program string) *Process {
	return &Process{program: program}
}

// Arg appends a single argument.
func (p *Process) Arg(arg string) *Process {
	p.args = append(p.args, arg)
	return p
}

// Args appends arguments.
func (p *Process) Args(args ...string) *Process {
	p.args = append(p.args, args...)
	return p
}

// Features appends features to the --features list passed to cargo.
func (p *Process) Features(features ...string) *Process {
	p.features = append(p.features, features...)
	return p
}

// Trailing sets the arguments passed after "--", such as test harness flags.
func (p *Process) Trailing(args ...string) *Process {
	p.trailing = append(p.trailing, args...)
	return p
}

// ManifestPath sets the --manifest-path passed to cargo.
func (p *Process) ManifestPath(path string) *Process {
	p.manifestPath = path
	return p
}

// DisplayManifestPath includes --manifest-path in [Process.String].
// It is hidden by default to keep progress output short.
func (p *Process) DisplayManifestPath() *Process {
	p.displayManifestPath = true
	return p
}

// Dir sets the working directory.
func (p *Process) Dir(dir string) *Process {
	p.dir = dir
	return p
}

// Stdout redirects standard output. Defaults to os.Stdout for Run.
func (p *Process) Stdout(w io.Writer) *Process {
	p.stdout = w
	return p
}

// Stderr redirects standard error. Defaults to os.Stderr.
func (p *Process) Stderr(w io.Writer) *Process {
	p.stderr = w
	return p
}

// Clone returns an independent copy of p.
func (p *Process) Clone() *Process {
	c := *p
	c.args = append([]string(nil), p.args...)
	c.features = append([]string(nil), p.features...)
	c.trailing = append([]string(nil), p.trailing...)
	return &c
}

// Program returns the executable this process runs.
func (p *Process) Program() string { return p.program }

// IsDisplayManifestPath reports whether String includes --manifest-path.
func (p *Process) IsDisplayManifestPath() bool { return p.displayManifestPath }

// Argv returns the arguments passed to the program, excluding the program itself.
func (p *Process) Argv() []string {
	argv := append([]string(nil), p.args...)
	if len(p.features) > 0 {
		argv = append(argv, "--features", strings.Join(p.features, ","))
	}
	if p.manifestPath != "" {
		argv = append(argv, "--manifest-path", p.manifestPath)
	}
	if len(p.trailing) > 0 {
		argv = append(argv, "--")
		argv = append(argv, p.trailing...)
	}
	return argv
}

// String renders the command line for progress and error messages.
func (p *Process) String() string {
	var b strings.Builder
	b.WriteString(quote(p.program))
	for _, a := range p.args {
		b.WriteByte(' ')
		b.WriteString(quote(a))
	}
	if len(p.features) > 0 {
		b.WriteString(" --features ")
		b.WriteString(quote(strings.Join(p.features, ",")))
	}
	if p.manifestPath != "" && p.displayManifestPath {
		b.WriteString(" --manifest-path ")
		b.WriteString(quote(p.manifestPath))
	}
	if len(p.trailing) > 0 {
		b.WriteString(" --")
		for _, a := range p.trailing {
			b.WriteByte(' ')
			b.WriteString(quote(a))
		}
	}
	return b.String()
}

// Run executes the process and waits for it to finish. A non-zero exit
// status is reported as *errors.ExitError.
func (p *Process) Run(ctx context.Context) error {
	cmd := p.command(ctx)
	cmd.Stdout = orDefault(p.stdout, os.Stdout)
	cmd.Stderr = orDefault(p.stderr, os.Stderr)
	return p.wrap(cmd.Run())
}

// Output executes the process and returns its standard output.
// Standard error is captured into the returned error on failure.
func (p *Process) Output(ctx context.Context) ([]byte, error) {
	cmd := p.command(ctx)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if p.stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderr, p.stderr)
	}
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrap(errors.ErrCodeProcess, p.wrap(err), "%s", msg)
		}
		return nil, p.wrap(err)
	}
	return out, nil
}

func (p *Process) command(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, p.program, p.Argv()...)
	cmd.Dir = p.dir
	return cmd
}

func (p *Process) wrap(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return &errors.ExitError{Command: p.String(), ExitCode: exitErr.ExitCode()}
	}
	return errors.Wrap(errors.ErrCodeProcess, err, "could not execute process `%s`", p.String())
}

func orDefault(w, def io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return def
}

// quote wraps arguments containing whitespace or quotes so the rendered
// command can be pasted into a shell.
func quote(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\n\"'") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
