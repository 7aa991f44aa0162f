// Package app runs one assemble pass from discovery to summary.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Compile queries, then touch files
//	└──────┬───────┘
//	       │
//	       ├─────> query.Compile()       after bound, filter, transformation
//	       ├─────> rotation.Discover()   rotated siblings, oldest first, base last
//	       ├─────> assemble.Assemble()   one in-memory buffer, gzip decoded
//	       ├─────> filter.Run()          per line: after, then user predicate
//	       ├─────> render.Render()       stdout, or buffered for ui.Run()
//	       ├─────> summary               END OUTPUT and Duration lines
//	       └─────> metrics.WriteFile()   when a metrics file is configured
//
// Everything runs sequentially on the calling goroutine.
//
// # Error Handling
//
// Fatal errors (returned from Run, nothing further is printed):
//   - An after bound that is not a valid calendar date or time of day
//   - A query that fails to compile
//   - A missing or unreadable segment, or a corrupt gzip stream
//   - A line that is not valid UTF-8
//   - Failure to write output or the metrics file
//
// Contained per record:
//   - A predicate that fails to evaluate excludes its line
//   - A record that fails to decode is printed as an error placeholder
//   - A transformation error is printed in place of its output
//
// # Pager
//
// With Options.Pager set and stdout on a terminal, rendered output is
// collected and shown in the ui pager; the summary is printed after it closes.
// Otherwise output streams straight to stdout.
package app
