// Package gm contains the game-master orchestration core: the pure context
// builder that turns a session into a model request, and the bounded loop
// that alternates model calls with tool dispatch until a narration emerges.
package gm
