// Package errors provides structured, actionable error messages for nextbase.
//
// Every failure the scaffolder can surface maps to a registered code
// (e.g., "E130") that carries a short message, a longer explanation and a
// documentation URL. Errors raised by setup steps additionally carry the step
// name, the exit code of the failing process and the tail of its output, so a
// failed run never ends with a bare "something went wrong".
//
// # Error Categories
//
//   - input: questionnaire answers (abandoned prompt, invalid feature)
//   - fetch: template materialization (unsupported source, destination conflict)
//   - prune: feature file removal
//   - setup: external setup commands (install, tailwind, ui, git)
//   - config: settings file and environment overrides
//   - cli: everything else the command line surfaces
//
// # Usage
//
//	err := errors.New("E130").
//	    WithStep("install").
//	    WithExitCode(1).
//	    WithSuggestion("Check that pnpm is installed and on your PATH")
//
//	errors.PrintError(os.Stderr, err)
//	// Output:
//	// ERROR E130: Setup step failed
//	//
//	//   step install (exit status 1)
//	//
//	//   Hint: Check that pnpm is installed and on your PATH
package errors
