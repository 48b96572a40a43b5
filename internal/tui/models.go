package tui

type View int

const (
	ViewDiscover View = iota
	ViewDetail
)

// Focus is the part of the discover view receiving keys.
type Focus int

const (
	FocusInput Focus = iota
	FocusCards
)
