package rounddomain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoleStrokes_States(t *testing.T) {
	assert.True(t, Unset().IsUnset())
	assert.False(t, Unset().Played())

	assert.True(t, PickedUp().Played())
	assert.True(t, PickedUp().IsPickedUp())
	_, counted := PickedUp().Count()
	assert.False(t, counted)

	n, ok := MustStrokes(4).Count()
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, err := NewStrokes(0)
	assert.ErrorIs(t, err, ErrInvalidStrokes)
	_, err = NewStrokes(MaxStrokes + 1)
	assert.ErrorIs(t, err, ErrInvalidStrokes)

	var zero HoleStrokes
	assert.Equal(t, Unset(), zero)
}

func TestHoleStrokes_Storage(t *testing.T) {
	for _, s := range []HoleStrokes{Unset(), PickedUp(), MustStrokes(1), MustStrokes(9)} {
		assert.Equal(t, s, FromStorage(s.ToStorage()), s.String())
	}
	assert.Equal(t, Unset(), FromStorage(-7))
	assert.Equal(t, Unset(), FromStorage(99))
}

func TestHoleStrokes_JSON(t *testing.T) {
	tests := []struct {
		raw     string
		want    HoleStrokes
		wantErr bool
	}{
		{raw: `null`, want: Unset()},
		{raw: `"picked_up"`, want: PickedUp()},
		{raw: `5`, want: MustStrokes(5)},
		{raw: `0`, wantErr: true},
		{raw: `"five"`, wantErr: true},
		{raw: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var got HoleStrokes
			err := json.Unmarshal([]byte(tt.raw), &got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStrokes)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tt.raw, string(out))
		})
	}
}
