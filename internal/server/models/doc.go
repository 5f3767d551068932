// Package models defines the records persisted by the server. Each record
// exposes ScanTargets so repositories can map rows through dbx.QueryAll and
// dbx.QueryOne; the SELECT column order in the repository must match.
package models
