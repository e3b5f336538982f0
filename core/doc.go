// Package core contains the shared data model of FableForge: turns, message
// parts, scenes, sessions, and the collaborator interfaces (world store,
// combat tracker, persona, event sink) consumed by the orchestration loop.
//
// The package intentionally keeps persistence, model specifics and tool
// registry abstractions in their respective packages to avoid cyclic deps.
package core
