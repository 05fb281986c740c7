// Package notifications delivers publishing events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-event toggles let operators keep error alerts while muting
// routine publish chatter.
//
// Extend this package if you need alternative transports; all publishing code
// depends only on the simple Service interface.
package notifications
