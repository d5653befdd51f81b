package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_RollsBackNewestFirst(t *testing.T) {
	var calls []string
	record := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			calls = append(calls, name)
			return err
		}
	}

	txn := NewTransaction(zerolog.Nop())
	txn.AddStep("one", record("one", nil), record("undo-one", nil))
	txn.AddStep("two", record("two", nil), record("undo-two", errors.New("ignored")))
	txn.AddStep("three", record("three", errors.New("boom")), record("undo-three", nil))

	err := txn.Execute(context.Background())

	require.Error(t, err)
	assert.Equal(t, "step 'three' failed: boom", err.Error())
	assert.Equal(t, []string{"one", "two", "three", "undo-two", "undo-one"}, calls)
}

func TestTransaction_Success(t *testing.T) {
	ran := 0
	txn := NewTransaction(zerolog.Nop())
	txn.AddStep("a", func(context.Context) error { ran++; return nil }, nil)
	txn.AddStep("b", func(context.Context) error { ran++; return nil }, nil)

	assert.NoError(t, txn.Execute(context.Background()))
	assert.Equal(t, 2, ran)
}

func TestTransaction_KeepsErrorChain(t *testing.T) {
	domain := &DomainError{Code: CodeDeliveryFailed, Message: "x"}
	txn := NewTransaction(zerolog.Nop())
	txn.AddStep("send", func(context.Context) error { return domain }, nil)

	err := txn.Execute(context.Background())

	assert.Equal(t, CodeDeliveryFailed, ErrorCode(err))
}
