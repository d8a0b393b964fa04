package splitter

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/splitter-contract/contracts/splitter/splitterconst"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke

	batches    [][]stackitem.Item
	terminated []uuid.UUID
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	if len(t.batches) == 0 {
		return nil, nil
	}
	b := t.batches[0]
	t.batches = t.batches[1:]
	return b, nil
}

func (t *testInv) TerminateSession(id uuid.UUID) error {
	t.terminated = append(t.terminated, id)
	return nil
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{State: "HALT", Stack: items}
}

func balanceItem(acc util.Uint160, amount int64) stackitem.Item {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(acc.BytesBE()),
		stackitem.Make(amount),
	})
}

func TestReader(t *testing.T) {
	ti := new(testInv)
	r := NewReader(ti, util.Uint160{1, 2, 3})

	ti.err = errors.New("bad")
	_, err := r.BalanceOf(util.Uint160{4})
	require.Error(t, err)
	_, err = r.Owner()
	require.Error(t, err)

	ti.err = nil
	ti.res = halt(stackitem.Make(42))
	b, err := r.BalanceOf(util.Uint160{4})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), b)

	f, err := r.Funds()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), f)

	ti.res = halt(stackitem.Make(true))
	p, err := r.Paused()
	require.NoError(t, err)
	require.True(t, p)

	owner := util.Uint160{9, 8, 7}
	ti.res = halt(stackitem.NewByteArray(owner.BytesBE()))
	o, err := r.Owner()
	require.NoError(t, err)
	require.Equal(t, owner, o)

	// owner stored by the contract is returned as Buffer
	ti.res = halt(stackitem.NewBuffer(owner.BytesBE()))
	o, err = r.Owner()
	require.NoError(t, err)
	require.Equal(t, owner, o)

	ti.res = halt(stackitem.NewByteArray([]byte{1, 2, 3}))
	_, err = r.Owner()
	require.Error(t, err)

	ti.res = &result.Invoke{State: "FAULT", FaultException: splitterconst.ErrAccessDenied}
	_, err = r.Version()
	require.ErrorContains(t, err, splitterconst.ErrAccessDenied)
}

func TestReader_Balances(t *testing.T) {
	acc1, acc2, acc3 := util.Uint160{1}, util.Uint160{2}, util.Uint160{3}

	t.Run("no sessions", func(t *testing.T) {
		ti := new(testInv)
		r := NewReader(ti, util.Uint160{1, 2, 3})

		ti.res = halt(stackitem.NewInterop(result.Iterator{
			Values: []stackitem.Item{balanceItem(acc1, 10), balanceItem(acc2, 20)},
		}))

		res, err := r.Balances(0)
		require.NoError(t, err)
		require.Equal(t, []*BalanceEntry{
			{Account: acc1, Amount: big.NewInt(10)},
			{Account: acc2, Amount: big.NewInt(20)},
		}, res)
		require.Empty(t, ti.terminated)
	})

	t.Run("session", func(t *testing.T) {
		ti := new(testInv)
		r := NewReader(ti, util.Uint160{1, 2, 3})

		sessionID, iterID := uuid.New(), uuid.New()
		ti.res = halt(stackitem.NewInterop(result.Iterator{ID: &iterID}))
		ti.res.Session = sessionID
		ti.batches = [][]stackitem.Item{
			{balanceItem(acc1, 1), balanceItem(acc2, 2)},
			{balanceItem(acc3, 3)},
		}

		res, err := r.Balances(2)
		require.NoError(t, err)
		require.Len(t, res, 3)
		require.Equal(t, acc3, res[2].Account)
		require.Equal(t, big.NewInt(3), res[2].Amount)
		require.Equal(t, []uuid.UUID{sessionID}, ti.terminated)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := BalanceEntries([]stackitem.Item{stackitem.Make(1)})
		require.Error(t, err)

		_, err = BalanceEntries([]stackitem.Item{stackitem.NewStruct([]stackitem.Item{
			stackitem.NewByteArray([]byte{1}),
			stackitem.Make(1),
		})})
		require.Error(t, err)
	})
}

func TestEventsFromApplicationLog(t *testing.T) {
	from, b1, b2 := util.Uint160{1}, util.Uint160{2}, util.Uint160{3}

	_, err := SplitPerformedEventsFromApplicationLog(nil)
	require.Error(t, err)

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: "Transfer",
					Item: stackitem.NewArray([]stackitem.Item{stackitem.Null{}}),
				},
				{
					Name: splitterconst.SplitPerformedEvent,
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(from.BytesBE()),
						stackitem.NewByteArray(b1.BytesBE()),
						stackitem.NewByteArray(b2.BytesBE()),
						stackitem.Make(50),
						stackitem.Make(1),
					}),
				},
				{
					Name: splitterconst.WithdrawalEvent,
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(b1.BytesBE()),
						stackitem.Make(50),
					}),
				},
				{
					Name: splitterconst.PausedEvent,
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(from.BytesBE()),
					}),
				},
			},
		}},
	}

	splits, err := SplitPerformedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*SplitPerformedEvent{{
		From:         from,
		Beneficiary1: b1,
		Beneficiary2: b2,
		Half:         big.NewInt(50),
		Remainder:    big.NewInt(1),
	}}, splits)

	withdrawals, err := WithdrawalEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*WithdrawalEvent{{Account: b1, Amount: big.NewInt(50)}}, withdrawals)

	paused, err := PausedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*PausedEvent{{Owner: from}}, paused)

	resumed, err := ResumedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Empty(t, resumed)

	log.Executions[0].Events[3].Item = stackitem.NewArray(nil)
	_, err = PausedEventsFromApplicationLog(log)
	require.Error(t, err)
}

func TestEvents_FromStackItem(t *testing.T) {
	acc := util.Uint160{7}

	var created SplitterCreatedEvent
	require.Error(t, created.FromStackItem(nil))
	require.NoError(t, created.FromStackItem(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc.BytesBE()),
	})))
	require.Equal(t, acc, created.Owner)

	var received AmountReceivedEvent
	require.Error(t, received.FromStackItem(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc.BytesBE()),
		stackitem.NewArray(nil),
	})))
	require.NoError(t, received.FromStackItem(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc.BytesBE()),
		stackitem.Make(5),
	})))
	require.Equal(t, AmountReceivedEvent{From: acc, Amount: big.NewInt(5)}, received)

	var resumed ResumedEvent
	require.Error(t, resumed.FromStackItem(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray([]byte{1, 2}),
	})))
	require.NoError(t, resumed.FromStackItem(stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(acc.BytesBE()),
	})))
	require.Equal(t, acc, resumed.Owner)
}
