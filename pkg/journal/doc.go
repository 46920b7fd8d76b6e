// Package journal records admission decisions for audit.
//
// The journal is write-only from the gateway's point of view: the quota
// tracker never reads it back, so quota counters stay in memory and start
// fresh on every restart. Entries are handed to a Recorder, which buffers
// them on a channel and writes them from a background goroutine so that
// admission never waits on storage.
//
//	j, err := journal.NewSQLiteJournal("data/decisions.db")
//	rec := journal.NewRecorder(j, nil)
//	defer rec.Close()
//
//	tracker := quota.NewTracker(deriver, catalog, quota.WithObserver(rec))
//
// A Pruner deletes entries older than the retention period on a cron
// schedule.
package journal
