// Package errors provides structured error types and exit codes for testimpact.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes. Each error kind maps to a distinct, stable value so that
// scripts and CI jobs can react to the failure category.
const (
	ExitSuccess            = 0
	ExitUncategorized      = 1
	ExitInvalidArguments   = 2
	ExitRunnerNotInstalled = 10
	ExitTestsFailed        = 20
	ExitVcsDiscovery       = 30
	ExitMetadata           = 40
	ExitVcsOperation       = 50
	ExitCommandFailed      = 60
	ExitUnknownPackage     = 70
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindUncategorized ErrorKind = iota
	KindVcsDiscovery
	KindVcsOperation
	KindMetadata
	KindRunnerNotInstalled
	KindCommandFailed
	KindUnknownPackage
	KindInvalidArguments
	KindTestsFailed
)

var kindNames = map[ErrorKind]string{
	KindUncategorized:      "uncategorized",
	KindVcsDiscovery:       "vcs_discovery",
	KindVcsOperation:       "vcs_operation",
	KindMetadata:           "metadata",
	KindRunnerNotInstalled: "runner_not_installed",
	KindCommandFailed:      "command_failed",
	KindUnknownPackage:     "unknown_package",
	KindInvalidArguments:   "invalid_arguments",
	KindTestsFailed:        "tests_failed",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the base error type for testimpact.
type Error struct {
	Kind      ErrorKind
	Message   string
	Operation string   // VCS operation, if applicable
	Command   string   // Printable command line, if applicable
	Runner    string   // Runner name, if applicable
	Package   string   // Package name, if applicable
	Packages  []string // Failing package names for KindTestsFailed
	Tip       string   // Optional remediation hint shown after the error line
	Cause     error    // Underlying error

	// Results carries the full result set for KindTestsFailed. It is typed
	// loosely to keep this package free of executor imports.
	Results any
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindVcsDiscovery:
		return "failed to discover repository: " + e.reason()
	case KindVcsOperation:
		return fmt.Sprintf("git %s failed: %s", e.Operation, e.reason())
	case KindMetadata:
		return "failed to read workspace metadata: " + e.reason()
	case KindRunnerNotInstalled:
		return fmt.Sprintf("test runner %q is not installed", e.Runner)
	case KindCommandFailed:
		return fmt.Sprintf("command `%s` failed: %s", e.Command, e.reason())
	case KindUnknownPackage:
		return fmt.Sprintf("package %q not found in workspace", e.Package)
	case KindInvalidArguments:
		return "invalid arguments: " + e.reason()
	case KindTestsFailed:
		return fmt.Sprintf("tests failed in %d package(s): %s", len(e.Packages), strings.Join(e.Packages, ", "))
	default:
		return e.reason()
	}
}

func (e *Error) reason() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return e.Message + ": " + e.Cause.Error()
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindVcsDiscovery:
		return ExitVcsDiscovery
	case KindVcsOperation:
		return ExitVcsOperation
	case KindMetadata:
		return ExitMetadata
	case KindRunnerNotInstalled:
		return ExitRunnerNotInstalled
	case KindCommandFailed:
		return ExitCommandFailed
	case KindUnknownPackage:
		return ExitUnknownPackage
	case KindInvalidArguments:
		return ExitInvalidArguments
	case KindTestsFailed:
		return ExitTestsFailed
	default:
		return ExitUncategorized
	}
}

// VcsDiscovery creates an error for a failed repository lookup.
func VcsDiscovery(cause error) *Error {
	return &Error{Kind: KindVcsDiscovery, Cause: cause}
}

// VcsOperation creates an error for a failed VCS query.
func VcsOperation(operation string, cause error) *Error {
	return &Error{Kind: KindVcsOperation, Operation: operation, Cause: cause}
}

// Metadata creates an error for a failed workspace metadata query.
func Metadata(cause error) *Error {
	return &Error{Kind: KindMetadata, Cause: cause}
}

// Metadataf creates a metadata error with formatting.
func Metadataf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindMetadata, Message: fmt.Sprintf(format, args...)}
}

// RunnerNotInstalled creates an error for a missing test runner.
func RunnerNotInstalled(runner, tip string) *Error {
	return &Error{Kind: KindRunnerNotInstalled, Runner: runner, Tip: tip}
}

// CommandFailed creates an error for a process that could not be run.
func CommandFailed(command string, cause error) *Error {
	return &Error{Kind: KindCommandFailed, Command: command, Cause: cause}
}

// UnknownPackage creates an error for a package name missing from the workspace.
func UnknownPackage(name string) *Error {
	return &Error{
		Kind:    KindUnknownPackage,
		Package: name,
		Tip:     "run `testimpact packages` to list the workspace packages",
	}
}

// InvalidArguments creates an error for bad user input.
func InvalidArguments(message string) *Error {
	return &Error{Kind: KindInvalidArguments, Message: message}
}

// InvalidArgumentsf creates an invalid arguments error with formatting.
func InvalidArgumentsf(format string, args ...interface{}) *Error {
	return InvalidArguments(fmt.Sprintf(format, args...))
}

// TestsFailed creates the error returned after a run with failing packages.
func TestsFailed(packages []string, results any) *Error {
	return &Error{Kind: KindTestsFailed, Packages: packages, Results: results}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{Kind: KindUncategorized, Message: message, Cause: err}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind ErrorKind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := As(err); ok {
		return e.ExitCode()
	}
	return ExitUncategorized
}
