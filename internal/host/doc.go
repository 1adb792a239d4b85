// Package host implements the surfaces a share invocation runs in.
//
// Desktop backs the share command: the OS URL handler is the primary
// opener, and the responder chain holds an optional opener command followed
// by a printer that writes the deep link to the terminal.
//
// Web backs the share-target endpoint: the primary opener answers the
// request with a redirect to the deep link, which only works for clients
// that follow redirects.
package host
