package jobs

import (
	"context"
	"time"

	"github.com/emrgen/circle/internal/store"
	"github.com/sirupsen/logrus"
)

// DeclinedSweeper removes declined connection requests once they are older
// than the retention window. A declined pair blocks new requests while its
// row exists, so the sweep is also what eventually lets a pair try again.
type DeclinedSweeper struct {
	store  store.Store
	maxAge time.Duration
}

// NewDeclinedSweeper creates a sweeper keeping declined rows for maxAge.
func NewDeclinedSweeper(store store.Store, maxAge time.Duration) *DeclinedSweeper {
	return &DeclinedSweeper{
		store:  store,
		maxAge: maxAge,
	}
}

func (s *DeclinedSweeper) Schedule() string {
	return "@hourly"
}

func (s *DeclinedSweeper) Run() {
	cutoff := time.Now().Add(-s.maxAge)

	removed, err := s.store.DeleteDeclinedBefore(context.TODO(), cutoff)
	if err != nil {
		logrus.Errorf("declined connection sweep failed: %v", err)
		return
	}

	if removed > 0 {
		logrus.Infof("removed %d declined connection(s) older than %s", removed, s.maxAge)
	}
}
