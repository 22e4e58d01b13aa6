package shared

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercent(t *testing.T) {
	// Empty containers report 0, never a division error.
	assert.Equal(t, 0, Completion{Completed: 0, Total: 0}.Percent())
	assert.Equal(t, 0, Completion{Completed: 5, Total: 0}.Percent())

	assert.Equal(t, 0, Completion{Completed: 0, Total: 4}.Percent())
	assert.Equal(t, 75, Completion{Completed: 3, Total: 4}.Percent())
	assert.Equal(t, 100, Completion{Completed: 4, Total: 4}.Percent())

	// Rounded to nearest, not truncated.
	assert.Equal(t, 33, Completion{Completed: 1, Total: 3}.Percent())
	assert.Equal(t, 67, Completion{Completed: 2, Total: 3}.Percent())
	assert.Equal(t, 17, Completion{Completed: 1, Total: 6}.Percent())
}

func TestCompletionFull(t *testing.T) {
	assert.True(t, Completion{Completed: 3, Total: 3}.Full())
	assert.False(t, Completion{Completed: 2, Total: 3}.Full())

	// A container with no children can never be full.
	assert.False(t, Completion{Completed: 0, Total: 0}.Full())
}

func TestCompletionAdd(t *testing.T) {
	sum := Completion{Completed: 1, Total: 2}.Add(Completion{Completed: 2, Total: 3})
	assert.Equal(t, Completion{Completed: 3, Total: 5}, sum)
}

func TestPersonalNoteValidate(t *testing.T) {
	assert.NoError(t, PersonalNote("").Validate())
	assert.NoError(t, PersonalNote(strings.Repeat("a", MaxNoteLength)).Validate())

	err := PersonalNote(strings.Repeat("a", MaxNoteLength+1)).Validate()
	assert.ErrorIs(t, err, ErrValueTooLong)

	// The bound is in characters, not bytes.
	assert.NoError(t, PersonalNote(strings.Repeat("ж", MaxNoteLength)).Validate())
}

func TestTimeSpentSecondsValidate(t *testing.T) {
	assert.NoError(t, TimeSpentSeconds(0).Validate())
	assert.NoError(t, TimeSpentSeconds(3600).Validate())
	assert.ErrorIs(t, TimeSpentSeconds(-1).Validate(), ErrNegativeValue)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("league-1"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("   "))
}

func TestDomainErrorMatching(t *testing.T) {
	assert.True(t, IsNotFound(ErrProgressNotFound))
	assert.True(t, IsForbidden(ErrNotEnrolled))
	assert.True(t, IsValidation(ErrNoteTooLong))
	assert.True(t, IsValidation(ErrEmptyPatch))
	assert.False(t, IsNotFound(ErrNotEnrolled))

	wrapped := WrapError("progress", "Upsert", ErrTransientStorage, "pool exhausted", assert.AnError)
	assert.True(t, IsRetryable(wrapped))
	assert.ErrorIs(t, wrapped, assert.AnError)
}
