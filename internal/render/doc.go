// Package render composes the branded video for a clip.
//
// A render is two encoder passes. OverlayComposer burns three lines of title
// text onto the 5-second intro asset, producing intro_with_title.mp4. Pipeline
// then concatenates overlay, clip and outro at 30 fps and mixes the clip's
// audio with the background music track. Job ties the two together for one
// clip and owns the intermediate overlay file, which is removed on every exit
// path. Thumbnailer grabs the midpoint frame of a finished render.
//
// All encoder work goes through ffmpeg.Encoder so tests can assert the exact
// filter graphs without running ffmpeg.
package render
