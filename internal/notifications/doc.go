// Package notifications delivers batch events to ntfy.
//
// NewService returns an ntfy-backed Service when notifications.ntfy_topic is
// set and a no-op otherwise, so the workflow never branches on whether
// notifications are enabled. Delivery failures are returned to the caller,
// which logs them as warnings; a failed notification never fails a clip.
package notifications
