/*
Package fault unifies how an execution context deals with everything that goes wrong in it.

Faults arrive three ways:
  - returned errors passed to [*Unifier.Handle] and panics caught by a deferred [*Unifier.Recover]
  - diagnostics raised with [*Unifier.Raise], which the ignore-list and reporting mask may defuse
  - an error stored with [*Unifier.Store] that nothing handled, picked up by a deferred [*Unifier.Terminate]

Each becomes a [*Record] and passes through the same handler:
the Record is logged, a 500 response is sent (with the message, location, and stack trace only in detail mode),
and the execution context exits with [ExitFailure].
By default exiting panics with [Exit]; wrap the execution context in [Guard] to recover the exit status.
*/
package fault
