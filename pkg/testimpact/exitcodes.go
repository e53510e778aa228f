// Package testimpact provides public constants for external tools
// integrating with the testimpact CLI.
package testimpact

// Exit codes returned by the testimpact CLI.
// These constants allow CI scripts and wrappers to check exit codes
// symbolically rather than using magic numbers.
const (
	// ExitSuccess indicates that every scheduled package passed, or that
	// there was nothing to test.
	ExitSuccess = 0

	// ExitUncategorized indicates an unexpected failure (including an interrupted run).
	ExitUncategorized = 1

	// ExitInvalidArguments indicates bad flags or an invalid configuration file.
	ExitInvalidArguments = 2

	// ExitRunnerNotInstalled indicates the selected test runner is missing.
	ExitRunnerNotInstalled = 10

	// ExitTestsFailed indicates that at least one package's tests failed.
	ExitTestsFailed = 20

	// ExitVcsDiscovery indicates the working directory is not inside a repository.
	ExitVcsDiscovery = 30

	// ExitMetadata indicates the workspace metadata could not be read.
	ExitMetadata = 40

	// ExitVcsOperation indicates a failed git query (status, diff).
	ExitVcsOperation = 50

	// ExitCommandFailed indicates a test process could not be started or drained.
	ExitCommandFailed = 60

	// ExitUnknownPackage indicates a manually selected package does not exist.
	ExitUnknownPackage = 70
)
