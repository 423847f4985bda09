// Package session provides in-memory session management for Treacherous Waters.
//
// Manager stores sessions keyed by their lower-cased ID, so lookups are
// case-insensitive. Each session owns one board built from the fleet
// configuration it was created with. Generated IDs are the first eight
// characters of a random UUID.
//
// The manager is safe for concurrent use. It guards its own map only; the
// boards inside sessions are serialized by the service layer.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "classic", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.RunCleanup(ctx, time.Minute, 2*time.Hour)
//
// Sessions live only as long as the process.
package session
