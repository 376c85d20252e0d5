package client

import (
	"context"
	"sync"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

// ViewState - явные состояния представления списка задач.
type ViewState int

const (
	ViewIdle ViewState = iota
	ViewLoading
	ViewLoaded
	ViewError
)

func (s ViewState) String() string {
	switch s {
	case ViewIdle:
		return "idle"
	case ViewLoading:
		return "loading"
	case ViewLoaded:
		return "loaded"
	case ViewError:
		return "error"
	}
	return "unknown"
}

// TaskView держит результат последнего запроса листинга. Каждому запросу
// выдается монотонный номер; завершение применяется только если его номер
// все еще последний выданный. Медленный старый ответ не может затереть
// более свежий.
type TaskView struct {
	mu    sync.Mutex
	seq   uint64
	state ViewState
	tasks []model.Task
	err   error
}

func NewTaskView() *TaskView {
	return &TaskView{state: ViewIdle}
}

// Begin регистрирует новый запрос и возвращает его номер.
func (v *TaskView) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	v.state = ViewLoading
	return v.seq
}

// Complete применяет результат запроса seq. Возвращает false, если
// результат устарел и был отброшен.
func (v *TaskView) Complete(seq uint64, tasks []model.Task, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if seq != v.seq {
		return false
	}

	if err != nil {
		v.state = ViewError
		v.err = err
		return true
	}

	v.state = ViewLoaded
	v.tasks = tasks
	v.err = nil
	return true
}

// Refresh - Begin + запрос + Complete одним вызовом.
func (v *TaskView) Refresh(ctx context.Context, c *Client, filter model.TaskFilter) error {
	seq := v.Begin()
	tasks, _, err := c.ListTasks(ctx, filter)
	v.Complete(seq, tasks, err)
	return err
}

func (v *TaskView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *TaskView) Tasks() []model.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tasks
}

func (v *TaskView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}
