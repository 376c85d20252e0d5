package client

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

func TestTaskView_Transitions(t *testing.T) {
	view := NewTaskView()
	assert.Equal(t, ViewIdle, view.State())

	seq := view.Begin()
	assert.Equal(t, ViewLoading, view.State())

	tasks := []model.Task{{ID: uuid.New(), Title: "One"}}
	assert.True(t, view.Complete(seq, tasks, nil))
	assert.Equal(t, ViewLoaded, view.State())
	assert.Len(t, view.Tasks(), 1)
	assert.NoError(t, view.Err())
}

func TestTaskView_ErrorState(t *testing.T) {
	view := NewTaskView()

	seq := view.Begin()
	wantErr := errors.New("boom")
	assert.True(t, view.Complete(seq, nil, wantErr))

	assert.Equal(t, ViewError, view.State())
	assert.ErrorIs(t, view.Err(), wantErr)
}

func TestTaskView_StaleResponseDiscarded(t *testing.T) {
	view := NewTaskView()

	// Два запроса в полете: старый и свежий
	oldSeq := view.Begin()
	newSeq := view.Begin()

	fresh := []model.Task{{ID: uuid.New(), Title: "Fresh"}}
	assert.True(t, view.Complete(newSeq, fresh, nil))

	// Медленный старый ответ приходит позже и отбрасывается
	stale := []model.Task{{ID: uuid.New(), Title: "Stale"}}
	assert.False(t, view.Complete(oldSeq, stale, nil))

	assert.Equal(t, ViewLoaded, view.State())
	assert.Equal(t, "Fresh", view.Tasks()[0].Title)
}

func TestTaskView_StaleErrorDoesNotClobberFreshResult(t *testing.T) {
	view := NewTaskView()

	oldSeq := view.Begin()
	newSeq := view.Begin()

	assert.True(t, view.Complete(newSeq, []model.Task{}, nil))
	assert.False(t, view.Complete(oldSeq, nil, errors.New("timeout")))

	assert.Equal(t, ViewLoaded, view.State())
	assert.NoError(t, view.Err())
}
