// Package runner describes the test commands spawned for each package and
// checks that the underlying toolchain is available.
package runner

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"slices"

	"github.com/hashicorp/go-version"
	"github.com/kballard/go-shellquote"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// Runner knows how to test a single workspace package.
type Runner interface {
	// Name is the identifier accepted by --test-runner.
	Name() string
	// Command returns the executable and arguments testing pkg. Extra runner
	// arguments are appended by the caller.
	Command(pkg string) []string
	IsInstalled(ctx context.Context) bool
	InstallInstructions() string
}

// Supported runner names.
const (
	Cargo   = "cargo"
	Nextest = "nextest"
	Go      = "go"
)

// Names lists the supported runners in help-text order.
func Names() []string {
	return []string{Cargo, Nextest, Go}
}

// outputFunc runs a command and returns its standard output.
type outputFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Tool is a Runner backed by a command-line toolchain.
type Tool struct {
	name      string
	ecosystem workspace.Ecosystem
	argv      func(pkg string) []string
	probe     []string
	minimum   *version.Version
	tip       string
	output    outputFunc
}

// NewCargo returns the runner spawning `cargo test -p <pkg>`.
func NewCargo() *Tool {
	return &Tool{
		name:      Cargo,
		ecosystem: workspace.EcosystemCargo,
		argv: func(pkg string) []string {
			return []string{"cargo", "test", "-p", pkg}
		},
		probe:  []string{"cargo", "--version"},
		tip:    "install Rust and cargo from https://rustup.rs",
		output: execOutput,
	}
}

// NewNextest returns the runner spawning `cargo nextest run -p <pkg>`.
// Packages without tests pass instead of failing the run.
func NewNextest() *Tool {
	return &Tool{
		name:      Nextest,
		ecosystem: workspace.EcosystemCargo,
		argv: func(pkg string) []string {
			return []string{"cargo", "nextest", "run", "--no-tests", "pass", "-p", pkg}
		},
		probe:   []string{"cargo", "nextest", "--version"},
		minimum: version.Must(version.NewVersion("0.9.80")),
		tip:     "install it with `cargo install cargo-nextest --locked`",
		output:  execOutput,
	}
}

// NewGo returns the runner spawning `go test <module>/...`. Package names
// in Go workspaces are module paths.
func NewGo() *Tool {
	return &Tool{
		name:      Go,
		ecosystem: workspace.EcosystemGo,
		argv: func(pkg string) []string {
			return []string{"go", "test", pkg + "/..."}
		},
		probe:   []string{"go", "version"},
		minimum: version.Must(version.NewVersion("1.18")),
		tip:     "install Go 1.18 or newer from https://go.dev/dl",
		output:  execOutput,
	}
}

// New returns the runner registered under name.
func New(name string) (Runner, error) {
	switch name {
	case Cargo:
		return NewCargo(), nil
	case Nextest:
		return NewNextest(), nil
	case Go:
		return NewGo(), nil
	default:
		return nil, errors.InvalidArgumentsf("unknown test runner %q (expected one of: %s)", name, Printable(Names()))
	}
}

// Default returns the runner name used for an ecosystem when none is configured.
func Default(e workspace.Ecosystem) string {
	if e == workspace.EcosystemGo {
		return Go
	}
	return Cargo
}

// Compatible reports an error when r cannot test packages of ecosystem e.
// Runners that do not declare an ecosystem are accepted.
func Compatible(r Runner, e workspace.Ecosystem) error {
	typed, ok := r.(interface{ Ecosystem() workspace.Ecosystem })
	if !ok || typed.Ecosystem() == e {
		return nil
	}
	return errors.InvalidArgumentsf("test runner %q cannot test %s workspaces", r.Name(), e)
}

// Printable renders argv as a shell-quoted command line.
func Printable(argv []string) string {
	return shellquote.Join(argv...)
}

func (t *Tool) Name() string { return t.name }
func (t *Tool) Ecosystem() workspace.Ecosystem { return t.ecosystem }
func (t *Tool) InstallInstructions() string { return t.tip }
func (t *Tool) Command(pkg string) []string { return t.argv(pkg) }
func (t *Tool) Minimum() *version.Version { return t.minimum }
func (t *Tool) ProbeCommand() []string { return slices.Clone(t.probe) }

// Version runs the probe command and parses the first version it prints.
func (t *Tool) Version(ctx context.Context) (*version.Version, error) {
	out, err := t.output(ctx, t.probe[0], t.probe[1:]...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Printable(t.probe), err)
	}
	return parseVersion(out)
}

// IsInstalled reports whether the probe command succeeds and, when a
// minimum is set, prints a version at least that high.
func (t *Tool) IsInstalled(ctx context.Context) bool {
	if t.minimum == nil {
		_, err := t.output(ctx, t.probe[0], t.probe[1:]...)
		return err == nil
	}
	v, err := t.Version(ctx)
	if err != nil {
		return false
	}
	return v.GreaterThanOrEqual(t.minimum)
}

// Matches "1.80.0" in "cargo 1.80.0 (376290515 2024-07-16)" and "1.22.3"
// in "go version go1.22.3 linux/amd64".
var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)+`)

func parseVersion(out []byte) (*version.Version, error) {
	raw := versionPattern.Find(out)
	if raw == nil {
		return nil, fmt.Errorf("no version found in %q", string(out))
	}
	return version.NewVersion(string(raw))
}
