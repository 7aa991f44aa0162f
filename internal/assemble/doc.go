// Package assemble turns an ordered list of rotated segments into one byte
// stream covering the whole log timeline.
//
// # Overview
//
// Segments arrive from the rotation package sorted oldest first, with the live
// log file last. Assemble opens each in turn, reads it to completion and
// appends the decoded bytes to a single buffer:
//
//	app.log.20210901T080000.gz ──gunzip──┐
//	app.log.20210902T220000    ──────────┼──> one []byte, oldest → newest
//	app.log                    ──────────┘
//
// # Line Boundaries
//
// Rotation happens between writes, so every rotated segment ends with a
// newline and no record spans two files. The buffer is therefore safe to split
// on '\n' without tracking where one segment stopped and the next began.
//
// # Resources
//
// Exactly one file handle is open at a time; it is closed before the next
// segment is opened. The whole timeline is held in memory, which keeps the
// downstream filter a plain forward scan at the cost of bounding input size by
// available RAM.
//
// # Diagnostics
//
// Each decompressed segment logs a "segment decoded" record at info level with
// its path, elapsed time and decoded size. The records go to the configured
// slog logger (stderr by default) so stdout carries only log output.
//
// # Error Handling
//
// There is no partial-result mode:
//
//   - A missing or unreadable file returns the wrapped *fs.PathError, so
//     errors.Is(err, fs.ErrNotExist) identifies a missing base log.
//   - A corrupt or truncated gzip stream returns an error matching
//     ErrDecompression.
//   - A cancelled context stops between segments.
package assemble
