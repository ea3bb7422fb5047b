package bus

import (
	"testing"

	"github.com/leandrodaf/eartrainer/internal/logger"
	"github.com/leandrodaf/eartrainer/sdk/contracts"
	"github.com/stretchr/testify/assert"
)

func TestPublishInSubscriptionOrder(t *testing.T) {
	b := New(logger.NewNopLogger())
	var got []string

	b.Subscribe("a", func(p any) { got = append(got, "first:"+p.(string)) })
	b.Subscribe("a", func(p any) { got = append(got, "second:"+p.(string)) })
	b.Subscribe("b", func(p any) { got = append(got, "other") })

	b.Publish("a", "x")

	assert.Equal(t, []string{"first:x", "second:x"}, got)
}

func TestReentrantPublishIsDepthFirst(t *testing.T) {
	b := New(logger.NewNopLogger())
	var got []string

	b.Subscribe("outer", func(any) {
		got = append(got, "outer-1")
		b.Publish("inner", nil)
		got = append(got, "outer-1-done")
	})
	b.Subscribe("outer", func(any) { got = append(got, "outer-2") })
	b.Subscribe("inner", func(any) { got = append(got, "inner") })

	b.Publish("outer", nil)

	assert.Equal(t, []string{"outer-1", "inner", "outer-1-done", "outer-2"}, got)
}

func TestSubscribeDuringPublishAppliesToNextPublish(t *testing.T) {
	b := New(logger.NewNopLogger())
	calls := 0

	b.Subscribe("e", func(any) {
		b.Subscribe("e", func(any) { calls++ })
	})

	b.Publish("e", nil)
	assert.Equal(t, 0, calls)

	b.Publish("e", nil)
	assert.Equal(t, 1, calls)
}

func TestTypedListenerDropsMismatchedPayload(t *testing.T) {
	b := New(logger.NewNopLogger())
	var notes []int

	On(b, contracts.SequencerPlayNote, func(n int) { notes = append(notes, n) })

	b.Publish(contracts.SequencerPlayNote, 60)
	b.Publish(contracts.SequencerPlayNote, "sixty")
	b.Publish(contracts.SequencerPlayNote, nil)

	assert.Equal(t, []int{60}, notes)
}

func TestPublishWithoutListeners(t *testing.T) {
	b := New(logger.NewNopLogger())

	assert.NotPanics(t, func() { b.Publish("nobody", 1) })

	calls := 0
	OnSignal(b, "somebody", func() { calls++ })
	b.Publish("somebody", "ignored")
	assert.Equal(t, 1, calls)
}
