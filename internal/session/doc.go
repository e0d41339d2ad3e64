// Package session models the dated recording sessions stored on the NAS and
// the clips inside them.
//
// A session directory is named YYYY.MM.DD or YYYY.MM.DD.N and holds one
// subfolder per clip type (hits, misses, montages, outtakes). Discover walks
// that layout lazily; Classify and OutputFilename are pure helpers shared by
// the metadata, render, and publish packages so naming stays identical
// everywhere.
package session
