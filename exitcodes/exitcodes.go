// Package exitcodes defines the standard exit codes used by compat-acceptor.
package exitcodes

// Exit code constants used by compat-acceptor
// These constants define the exit codes that the application uses to indicate
// various states when it exits:
//
// * Success (0): Used when no failing verdicts were produced in the invoked scope
// * TestFailure (1): Used when one or more scenarios fail, time out, or error
// * RuntimeErr (2): Used for runtime errors such as configuration problems or
//   an unwritable registry file
const (
	Success     = 0 // No failing verdicts
	TestFailure = 1 // Scenario failures
	RuntimeErr  = 2 // Runtime errors
)
