package model

type state int

const (
	DefaultState state = iota
	ExpectingTicker
)

type Session struct {
	State      state
	LastTicker string
}
