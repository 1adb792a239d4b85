// Command sharebridge turns shared content into Scrapbox pages opened
// through the LogSense app.
//
// Usage:
//
//	# Share a link
//	sharebridge share --title "Go blog" --url https://go.dev/blog
//
//	# Share a photo; needs a Gyazo token in the settings store
//	sharebridge settings set GyazoToken <token>
//	sharebridge share --file IMG_0042.HEIC
//
//	# Run the share-target endpoint for browsers and PWAs
//	sharebridge serve
//
// Configuration comes from the environment, optionally seeded from a .env
// file in the working directory. The settings store holds ProjectName and
// GyazoToken.
package main
