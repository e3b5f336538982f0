// Package model defines the provider-neutral generative capability interface
// consumed by the orchestration loop, plus a scripted in-memory
// implementation for deterministic tests. Concrete provider adapters live in
// the openai and anthropic subpackages.
package model
