package tui

import (
	"fmt"
)

// Canonical short status messages used across the app.
const (
	MsgLoading       = "Loading movies…"
	MsgNoResults     = "No movies found"
	MsgOpening       = "Opening in browser…"
	MsgRendering     = "Rendering…"
	MsgNoOverview    = "No overview available."
	MsgPopularMovies = "Popular Movies"
	MsgTrending      = "Trending Searches"
)

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func MsgResultsFor(query string) string {
	return fmt.Sprintf("Results for %q", query)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgSearchCount(n int64) string {
	if n == 1 {
		return "1 search"
	}
	return fmt.Sprintf("%d searches", n)
}

func styleForKind(kind StatusKind) func(...string) string {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle.Render
	case StatusWarn:
		return StatusWarnStyle.Render
	case StatusError:
		return StatusErrorStyle.Render
	default:
		return StatusInfoStyle.Render
	}
}
