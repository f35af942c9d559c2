package knowledge

import "errors"

// ErrInconsistentObservation is returned when a newly observed output for a
// word's prefix diverges from what the cache already recorded for that same
// prefix — the cache-layer signal that the target is nondeterministic or
// otherwise misbehaving, mirroring the "Incompatible path found" failure in
// pylstar's KnowledgeTree.
var ErrInconsistentObservation = errors.New("knowledge: inconsistent observation for previously cached prefix")

// ErrTransportFailure wraps any error returned by a Target during Start,
// Stop, or Submit.
var ErrTransportFailure = errors.New("knowledge: transport failure")
