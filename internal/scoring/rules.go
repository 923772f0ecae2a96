package scoring

import (
	"errors"
	"fmt"

	"github.com/huytran-vn/picklepro/internal/store"
)

// Pickleball rally scoring: a set is won at the point cap with a two-point
// margin; a match is won by taking a majority of sets.
const (
	// WinningCap is the point total a side must reach to win a set.
	WinningCap = 11
	// WinByMargin is the minimum lead required at or beyond the cap.
	WinByMargin = 2
	// SetsToWin is the majority threshold for a best-of-3 match.
	SetsToWin = 2
)

var (
	ErrInvalidSetScore   = errors.New("invalid set score")
	ErrUnsupportedStatus = errors.New("unsupported match status for score update")
	ErrMatchNotFound     = errors.New("match not found")
)

// Side identifies which side of a match a result refers to.
type Side int

const (
	SideNone    Side = 0
	SidePlayer1 Side = 1
	SidePlayer2 Side = 2
)

// ValidateSet reports whether the point pair is a legal pickleball set score.
// A set is legal while both sides are below the cap (still in progress), or
// once a side has reached the cap with at least a two-point margin. There is
// no upper ceiling: 15-13 is a legal extended set.
func ValidateSet(set store.SetScore) error {
	if set.Player1 < 0 || set.Player2 < 0 {
		return fmt.Errorf("%w: negative points %d-%d", ErrInvalidSetScore, set.Player1, set.Player2)
	}
	if set.Player1 < WinningCap && set.Player2 < WinningCap {
		return nil
	}
	if diff(set.Player1, set.Player2) >= WinByMargin {
		return nil
	}
	return fmt.Errorf("%w: %d-%d reaches the cap without a %d-point margin", ErrInvalidSetScore, set.Player1, set.Player2, WinByMargin)
}

// SetWinner returns the side that won the set, or SideNone while the set is
// still in progress or the score is not legal.
func SetWinner(set store.SetScore) Side {
	if ValidateSet(set) != nil {
		return SideNone
	}
	if set.Player1 < WinningCap && set.Player2 < WinningCap {
		return SideNone
	}
	if set.Player1 > set.Player2 {
		return SidePlayer1
	}
	return SidePlayer2
}

// DetermineWinner applies the best-of-N majority rule to a set record. It
// returns SideNone until one side has won SetsToWin sets, regardless of what
// status the caller claims for the match.
func DetermineWinner(sets []store.SetScore) Side {
	var wins1, wins2 int
	for _, set := range sets {
		switch SetWinner(set) {
		case SidePlayer1:
			wins1++
		case SidePlayer2:
			wins2++
		}
	}
	switch {
	case wins1 >= SetsToWin:
		return SidePlayer1
	case wins2 >= SetsToWin:
		return SidePlayer2
	default:
		return SideNone
	}
}

func diff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
