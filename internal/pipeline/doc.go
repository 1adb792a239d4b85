// Package pipeline runs one share invocation end to end.
//
// Stages run in order and each one runs at most once:
//
//	Idle → Classifying → Extracting → [Uploading] → BuildingReference → Dispatching → Completed
//
// Uploading only happens for images. Any failure jumps straight to
// Completed with an undeliverable outcome. The host is signalled complete
// exactly once per Run, from a deferred release taken before the first
// stage.
package pipeline
