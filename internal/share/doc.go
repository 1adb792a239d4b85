// Package share models an incoming share payload and turns it into a
// classified request.
//
// A payload is a list of typed attachments plus optional display text.
// Classification picks one variant by priority (image, then URL, then text)
// without loading anything; Resolve loads the chosen attachment; Extract
// produces the title and URL for the link and text variants.
//
// The package also owns the failure taxonomy shared by every stage of the
// pipeline. All failures are terminal for an invocation.
package share
