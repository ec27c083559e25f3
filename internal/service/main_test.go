package service

import (
	"os"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/emrgen/circle/internal/model"
	"github.com/emrgen/circle/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}

func createTestUser(t *testing.T) *model.User {
	t.Helper()

	user := &model.User{
		Email:     gofakeit.Email(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Headline:  gofakeit.JobTitle(),
	}
	if err := tester.TestDB().Create(user).Error; err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	return user
}
