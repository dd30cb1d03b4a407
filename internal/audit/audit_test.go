package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcpdev/xshacl/internal/kg"
	"github.com/gcpdev/xshacl/internal/model"
	"github.com/gcpdev/xshacl/internal/testutil"
)

func openLog(t *testing.T) (*Log, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, path
}

func TestOpenIsIdempotent(t *testing.T) {
	l, path := openLog(t)
	require.NoError(t, l.Record(kg.Event{Op: kg.OpPut, Token: "sig_aa", Outcome: kg.OutcomeInserted}))
	require.NoError(t, l.Close())

	// reopening applies pragmas and schema again without losing data
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sig_aa", entries[0].Token)
}

func TestRecordPreservesAppendOrder(t *testing.T) {
	l, _ := openLog(t)
	events := []kg.Event{
		{Op: kg.OpHas, Token: "sig_aa", Outcome: kg.OutcomeMiss},
		{Op: kg.OpPut, Token: "sig_aa", Outcome: kg.OutcomeInserted},
		{Op: kg.OpPut, Token: "sig_aa", Outcome: kg.OutcomeDuplicate},
		{Op: kg.OpGet, Token: "sig_aa", Outcome: kg.OutcomeHit},
		{Op: kg.OpClear, Outcome: kg.OutcomeCleared},
	}
	for _, ev := range events {
		require.NoError(t, l.Record(ev))
	}

	entries, err := l.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, len(events))
	for i, e := range entries {
		assert.Equal(t, events[i].Op, e.Op)
		assert.Equal(t, events[i].Token, e.Token)
		assert.Equal(t, events[i].Outcome, e.Outcome)
		if i > 0 {
			assert.Greater(t, e.Seq, entries[i-1].Seq, "sequence numbers grow with append order")
		}
	}
}

func TestCounts(t *testing.T) {
	l, _ := openLog(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Record(kg.Event{Op: kg.OpGet, Token: "sig_aa", Outcome: kg.OutcomeHit}))
	}
	require.NoError(t, l.Record(kg.Event{Op: kg.OpGet, Token: "sig_bb", Outcome: kg.OutcomeMiss}))
	require.NoError(t, l.Record(kg.Event{Op: kg.OpPut, Token: "sig_aa", Outcome: kg.OutcomeInserted}))

	counts, err := l.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"get/hit":      3,
		"get/miss":     1,
		"put/inserted": 1,
	}, counts)
}

func TestEmptyLog(t *testing.T) {
	l, _ := openLog(t)

	entries, err := l.Events(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	counts, err := l.Counts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestAttachedToStore(t *testing.T) {
	l, _ := openLog(t)
	k, err := kg.Open(
		kg.WithStorePath(filepath.Join(t.TempDir(), "kg.ttl")),
		kg.WithRecorder(l),
	)
	require.NoError(t, err)

	sig := testutil.MinCountSignature()
	_, err = k.Has(sig)
	require.NoError(t, err)
	require.NoError(t, k.Put(sig, &model.ExplanationOutput{NaturalLanguageExplanation: "n"}))
	_, err = k.Get(sig)
	require.NoError(t, err)

	counts, err := l.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{
		"has/miss":     1,
		"put/inserted": 1,
		"get/hit":      1,
	}, counts)
}
