/*
Package ports defines the driven ports (interfaces) of nfalab.

These interfaces decouple the compiler and the session layer from storage and
transport, so the same sessions can live in memory, on disk or in Redis.

# Key Interfaces

  - PatternCompiler: compiles a pattern (implemented by nfalab.Engine).
  - SessionStore: persists the cursor of a simulation session.
  - DistributedLocker: serializes access to a session across replicas.
*/
package ports
