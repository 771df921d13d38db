// Package heatmap derives calendar heatmaps and streak statistics from
// per-day activity counters.
//
// Every function in this package is pure: the current day is always passed
// in by the caller, nothing is cached, and inputs are never mutated, so the
// functions may be called concurrently without coordination. Dates are naive
// calendar days formatted as YYYY-MM-DD; no timezone conversion is applied.
package heatmap
