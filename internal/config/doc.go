// Package config loads, normalizes, and validates reelforge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY, DEBUG_MODE and the YT_PLAYLIST_ID_* playlist variables. The
// Config value is built once at process start and handed to every component
// constructor; nothing downstream reads process environment directly.
package config
