/*
Package ports defines the capability interfaces consumed by the actionflow
engine. The engine emits side effects through these seams, and the host
application implements them; nothing in this package performs I/O itself.

DataSource is the storage capability used by rollback and batch paths.
The handler interfaces (Confirmer, Toaster, ModalRenderer, Navigator,
ParamCollector) are the UI capabilities injected at construction time.
*/
package ports
