/*
Package domain contains the core data model of the nfalab automaton engine.

It defines the value types shared by the compiler, the simulator and every adapter.
This package is kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Symbol: a single input character or the epsilon marker.
  - State / Transition / NFA: the compiled automaton, stored as an arena of states
    indexed by ID with transitions referring to IDs.
  - ActiveSet: the sorted set of state IDs occupied after consuming a prefix.
  - Session / View: the persisted simulation cursor and its render-friendly projection.
  - CompileError: the typed, all-or-nothing failure of a compilation.
*/
package domain
