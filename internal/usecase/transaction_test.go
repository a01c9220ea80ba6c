package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTransactionRollsBackInReverse(t *testing.T) {
	var calls []string
	step := func(name string, err error) func(context.Context) error {
		return func(context.Context) error {
			calls = append(calls, name)
			return err
		}
	}

	tx := NewTransaction(zap.NewNop())
	tx.AddOperation("a", step("a", nil))
	tx.AddCompensation("undo a", step("undo a", nil))
	tx.AddOperation("b", step("b", nil))
	tx.AddCompensation("undo b", step("undo b", errors.New("ignored")))
	tx.AddOperation("c", step("c", errors.New("boom")))
	tx.AddCompensation("undo c", step("undo c", nil))

	err := tx.Execute(t.Context())
	assert.ErrorContains(t, err, "operation 'c' failed: boom")
	assert.Equal(t, []string{"a", "b", "c", "undo b", "undo a"}, calls)
}

func TestTransactionSuccessSkipsCompensations(t *testing.T) {
	undone := false
	tx := NewTransaction(nil)
	tx.AddOperation("a", func(context.Context) error { return nil })
	tx.AddCompensation("undo a", func(context.Context) error { undone = true; return nil })

	assert.NoError(t, tx.Execute(t.Context()))
	assert.False(t, undone)
}
