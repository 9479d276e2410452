// Package services defines shared utilities consumed by the pipeline stages
// and the external helper integrations.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, media file IDs, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent job statuses.
//   - The CommandRunner abstraction that makes decoder, oracle, and
//     punctuation helpers testable without spawning processes.
package services
