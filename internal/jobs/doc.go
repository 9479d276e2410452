// Package jobs persists subtitle job records in SQLite and guards media files
// against concurrent processing.
//
// A record is created when a job is submitted, updated as the pipeline moves
// through its stages, and finished with a terminal status. Finished records
// stay until removed, so operators can inspect warning counts after the fact.
package jobs
