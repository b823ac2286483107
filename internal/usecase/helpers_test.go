package usecase

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

// zeroSource makes the opponent always take the first empty cell in row-major order.
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

type manualTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

// manualScheduler queues tasks until the test runs them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (that *manualScheduler) Schedule(delay time.Duration, fn func()) func() {
	that.mu.Lock()
	defer that.mu.Unlock()

	task := &manualTask{delay: delay, fn: fn}
	that.tasks = append(that.tasks, task)

	return func() {
		that.mu.Lock()
		defer that.mu.Unlock()

		task.cancelled = true
	}
}

// RunPending runs the queued tasks that were not cancelled and returns how many ran.
func (that *manualScheduler) RunPending() int {
	return that.run(false)
}

// FireAll runs every queued task, cancelled or not, like timers that already fired.
func (that *manualScheduler) FireAll() int {
	return that.run(true)
}

func (that *manualScheduler) Pending() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	pending := 0
	for _, task := range that.tasks {
		if !task.cancelled {
			pending++
		}
	}

	return pending
}

func (that *manualScheduler) run(includeCancelled bool) int {
	that.mu.Lock()
	tasks := that.tasks
	that.tasks = nil
	that.mu.Unlock()

	ran := 0
	for _, task := range tasks {
		if task.cancelled && !includeCancelled {
			continue
		}

		task.fn()
		ran++
	}

	return ran
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fullBoardWithoutWin fills every cell so that no four equal markers line up.
func fullBoardWithoutWin() entity.Board {
	board := entity.NewBoard()
	for r := range board {
		for c := range board[r] {
			if (c+2*r)%4 < 2 {
				board[r][c] = entity.MarkerHuman
			} else {
				board[r][c] = entity.MarkerOpponent
			}
		}
	}

	return board
}
