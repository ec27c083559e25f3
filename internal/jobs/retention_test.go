package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/circle/internal/model"
	"github.com/emrgen/circle/internal/store"
	"github.com/emrgen/circle/internal/tester"
	"github.com/stretchr/testify/assert"
)

func TestDeclinedSweeper_Run(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	s := store.NewGormStore(tester.TestDB())

	old := &model.Connection{RequesterID: 1, AddresseeID: 2, Status: model.ConnectionDeclined}
	assert.NoError(t, s.CreateConnection(context.TODO(), old))
	fresh := &model.Connection{RequesterID: 1, AddresseeID: 3, Status: model.ConnectionDeclined}
	assert.NoError(t, s.CreateConnection(context.TODO(), fresh))

	err := tester.TestDB().
		Model(&model.Connection{}).
		Where("id = ?", old.ID).
		Update("updated_at", time.Now().Add(-72*time.Hour)).Error
	assert.NoError(t, err)

	NewDeclinedSweeper(s, 24*time.Hour).Run()

	_, err = s.GetConnection(context.TODO(), old.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// inside the retention window, still blocking the pair
	_, err = s.GetConnection(context.TODO(), fresh.ID)
	assert.NoError(t, err)
}

func TestDeclinedSweeper_Schedule(t *testing.T) {
	sweeper := NewDeclinedSweeper(nil, time.Hour)
	assert.Equal(t, "@hourly", sweeper.Schedule())
}
