/*
Package session runs simulations on persisted sessions.

A session stores only its pattern, input and cursor index. The Service rebuilds
the automaton and replays the history on every call, which is deterministic,
so any replica holding the session lock can serve the next step. The Manager
provides per-session locking (local, plus an optional distributed locker).
*/
package session
