// Package callback hands the finished page URL back to the host
// application through a custom-scheme deep link.
//
// Delivery tries an ordered list of strategies. The first strategy is the
// host's own opener. Later strategies walk the host's responder chain. The
// Completion guard makes sure the host is told the request finished exactly
// once, whatever happened before.
package callback
