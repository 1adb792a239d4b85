// Package http serves the share-target endpoint. Browsers and PWAs post
// title, text, url and media fields; clients that follow redirects are sent
// straight into the note app, others receive the deep link as JSON.
package http
