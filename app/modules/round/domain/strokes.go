package rounddomain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// MaxStrokes caps a single hole entry. Anything above is a typo, not a score.
const MaxStrokes = 20

// storagePickedUp is the column value used for a picked-up hole.
const storagePickedUp = -1

const pickedUpJSON = "picked_up"

// ErrInvalidStrokes is returned for stroke counts outside 1..MaxStrokes.
var ErrInvalidStrokes = errors.New("invalid stroke count")

type strokesState uint8

const (
	stateUnset strokesState = iota
	statePickedUp
	stateCounted
)

// HoleStrokes is the tri-state entry for one hole: not yet entered, picked up,
// or a positive stroke count. The zero value is unset.
type HoleStrokes struct {
	state strokesState
	count int
}

// Unset returns an empty hole entry.
func Unset() HoleStrokes { return HoleStrokes{} }

// PickedUp returns the entry for a hole the player abandoned.
func PickedUp() HoleStrokes { return HoleStrokes{state: statePickedUp} }

// NewStrokes returns an entry for n strokes.
func NewStrokes(n int) (HoleStrokes, error) {
	if n < 1 || n > MaxStrokes {
		return HoleStrokes{}, fmt.Errorf("%w: %d", ErrInvalidStrokes, n)
	}
	return HoleStrokes{state: stateCounted, count: n}, nil
}

// MustStrokes is NewStrokes for literals; it panics on an invalid count.
func MustStrokes(n int) HoleStrokes {
	s, err := NewStrokes(n)
	if err != nil {
		panic(err)
	}
	return s
}

// Played reports whether the hole has an entry, counted or picked up.
func (s HoleStrokes) Played() bool { return s.state != stateUnset }

func (s HoleStrokes) IsPickedUp() bool { return s.state == statePickedUp }

func (s HoleStrokes) IsUnset() bool { return s.state == stateUnset }

// Count returns the stroke count and true when the hole was counted.
func (s HoleStrokes) Count() (int, bool) {
	if s.state != stateCounted {
		return 0, false
	}
	return s.count, true
}

func (s HoleStrokes) String() string {
	switch s.state {
	case statePickedUp:
		return pickedUpJSON
	case stateCounted:
		return strconv.Itoa(s.count)
	default:
		return "unset"
	}
}

// ToStorage encodes the entry for the hole_scores column.
func (s HoleStrokes) ToStorage() int {
	switch s.state {
	case statePickedUp:
		return storagePickedUp
	case stateCounted:
		return s.count
	default:
		return 0
	}
}

// FromStorage decodes a hole_scores column value. Values that cannot be a
// valid entry decode as unset.
func FromStorage(v int) HoleStrokes {
	switch {
	case v == storagePickedUp:
		return PickedUp()
	case v >= 1 && v <= MaxStrokes:
		return HoleStrokes{state: stateCounted, count: v}
	default:
		return Unset()
	}
}

func (s HoleStrokes) MarshalJSON() ([]byte, error) {
	switch s.state {
	case statePickedUp:
		return json.Marshal(pickedUpJSON)
	case stateCounted:
		return json.Marshal(s.count)
	default:
		return []byte("null"), nil
	}
}

func (s *HoleStrokes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Unset()
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		if text != pickedUpJSON {
			return fmt.Errorf("%w: %q", ErrInvalidStrokes, text)
		}
		*s = PickedUp()
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidStrokes, string(data))
	}
	parsed, err := NewStrokes(n)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
