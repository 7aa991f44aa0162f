// Package rotation discovers the rotated segments of a log file.
//
// # Naming Scheme
//
// A log written to /var/log/app.log is rotated into siblings that carry the
// rotation time as a suffix:
//
//	app.log                         live file, always newest
//	app.log.20210902T220000         rotated, plain text
//	app.log.20210902T220000.1       second rotation within the same second
//	app.log.20210901T080000.gz      rotated and gzip-compressed
//
// The timestamp is reduced to its 14 digits to form the segment Key. Keys are
// fixed-width, so sorting them as strings sorts the segments chronologically
// without parsing dates.
//
// # Retention
//
// Discover drops segments in two independent passes:
//
//  1. Policy: segments older than MaxAge (default one week) and, when MaxFiles
//     is set, all but the newest MaxFiles segments.
//  2. After bound: the digits of a user-supplied prefix such as
//     "2021-09-02 22". A segment whose Key sorts below the bound was rotated
//     before that moment, so none of its records can be newer.
//
// The live file is appended last and is never filtered.
package rotation
