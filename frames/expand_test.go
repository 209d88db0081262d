package frames

import (
	"testing"

	"github.com/bcc-code/bcc-media-clips/common"
	"github.com/stretchr/testify/assert"
)

func padWith(v int) func() int {
	return func() int { return v }
}

func TestExpand(t *testing.T) {
	src := []int{1, 2, 3}

	type testCase struct {
		Name     string
		Start    int
		Needed   int
		Behavior common.Behavior
		Expected []int
		Err      error
	}

	testCases := []testCase{
		{Name: "within source", Start: 1, Needed: 2, Behavior: common.EnforceLimit, Expected: []int{2, 3}},
		{Name: "enforce overflow", Start: 0, Needed: 4, Behavior: common.EnforceLimit, Err: common.ErrRange},
		{Name: "loop k times", Start: 0, Needed: 9, Behavior: common.LoopFrames, Expected: []int{1, 2, 3, 1, 2, 3, 1, 2, 3}},
		{Name: "loop from window start", Start: 2, Needed: 4, Behavior: common.LoopFrames, Expected: []int{3, 1, 2, 3}},
		{Name: "pad m frames", Start: 0, Needed: 5, Behavior: common.Pad, Expected: []int{1, 2, 3, 0, 0}},
		{Name: "pad past the end", Start: 4, Needed: 2, Behavior: common.Pad, Expected: []int{0, 0}},
		{Name: "zero needed", Start: 0, Needed: 0, Behavior: common.EnforceLimit, Expected: []int{}},
		{Name: "negative start", Start: -1, Needed: 1, Behavior: common.Pad, Err: common.ErrRange},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			out, err := Expand(src, tc.Start, tc.Needed, tc.Behavior, padWith(0))
			if tc.Err != nil {
				assert.ErrorIs(t, err, tc.Err)
				assert.Nil(t, out)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.Expected, out)
		})
	}
}

func TestExpandEmptySource(t *testing.T) {
	_, err := Expand([]int{}, 0, 2, common.LoopFrames, padWith(0))
	assert.ErrorIs(t, err, common.ErrRange)

	out, err := Expand([]int{}, 0, 2, common.Pad, padWith(7))
	assert.NoError(t, err)
	assert.Equal(t, []int{7, 7}, out)
}

func TestExpandDoesNotAlias(t *testing.T) {
	src := []int{1, 2, 3}
	out, err := Expand(src, 0, 3, common.EnforceLimit, padWith(0))
	assert.NoError(t, err)
	out[0] = 99
	assert.Equal(t, 1, src[0])
}
