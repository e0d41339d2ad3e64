// Package metadata derives per-session metadata from the NAS layout and
// persists the finalized per-clip records in the local archive.
//
// Derive reads the session directory name, the optional notes.json document
// (validated against an embedded JSON schema), the optional notes.txt free
// text, and every clip in the session. Archive writes one JSON record per
// published clip under <archive>/<YYYY.MM.DD>/<stem>.json using a temp file
// and rename, and counts those records to number repeat publishes.
package metadata
