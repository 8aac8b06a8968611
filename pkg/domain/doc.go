/*
Package domain contains the core domain models for the actionflow engine.

It defines the fundamental entities of declarative action execution, such as
ActionDefinitions, ActionResults, and the transaction bookkeeping records.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - ActionDefinition: A declarative, immutable description of one unit of work.
  - ActionResult: The value-typed outcome of executing an action.
  - Operation: A record of one committed side effect, replayed in reverse on rollback.
  - OptimisticUpdate: A pending UI-visible change, terminated by confirm or rollback.
  - ProgressEvent: An observational snapshot of transaction progress.
*/
package domain
