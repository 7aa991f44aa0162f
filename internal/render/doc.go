// Package render formats included log lines for the terminal.
//
// In the default mode each line is decoded as a record and printed as
//
//	Sep 02 22:15:00.123 INFO [svc] started
//		pid: 42
//
// with the level coloured by severity. Lines that fail to decode are replaced
// by a short placeholder, or by the error and the original line when error
// details are requested. In no-format mode lines are printed untouched or
// passed through a transform query.
package render
