// Package main hosts the subtitle2go CLI entrypoint and command graph.
//
// "generate" runs one transcription job in the foreground: it loads the
// configuration, applies flag overrides, checks the external programs and
// hands the media file to the pipeline. The remaining commands inspect the
// job registry, validate rendered subtitle files, run preflight checks and
// scaffold configuration.
package main
