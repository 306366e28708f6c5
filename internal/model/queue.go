package model

import (
	"fmt"
	"sync"
	"time"
)

// PendingTurn is a game waiting for the computer to move.
type PendingTurn struct {
	GameID   string
	QueuedAt time.Time
}

// TurnQueue holds computer turns in the order they became due.
type TurnQueue struct {
	turns []PendingTurn
	mu    sync.Mutex
}

func NewTurnQueue() *TurnQueue {
	return &TurnQueue{
		turns: []PendingTurn{},
	}
}

func (q *TurnQueue) Add(gameID string, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, t := range q.turns {
		if t.GameID == gameID {
			return fmt.Errorf("game %s already queued", gameID)
		}
	}

	q.turns = append(q.turns, PendingTurn{
		GameID:   gameID,
		QueuedAt: at,
	})
	return nil
}

// PopReady removes and returns every turn that has waited at least delay.
func (q *TurnQueue) PopReady(now time.Time, delay time.Duration) []PendingTurn {
	q.mu.Lock()
	defer q.mu.Unlock()

	ready := []PendingTurn{}
	waiting := q.turns[:0]
	for _, t := range q.turns {
		if now.Sub(t.QueuedAt) >= delay {
			ready = append(ready, t)
		} else {
			waiting = append(waiting, t)
		}
	}
	q.turns = waiting
	return ready
}

func (q *TurnQueue) Remove(gameID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, t := range q.turns {
		if t.GameID == gameID {
			q.turns = append(q.turns[:i], q.turns[i+1:]...)
			return
		}
	}
}

func (q *TurnQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.turns)
}
