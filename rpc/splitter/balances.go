package splitter

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// DefaultIteratorBatch is the number of balance records fetched per
// iterator traversal request.
const DefaultIteratorBatch = 100

// Balances returns all credited accounts of the contract. It works with
// servers both supporting and not supporting iterator sessions, items are
// fetched in batches of the given size (DefaultIteratorBatch if not
// positive).
func (c *ContractReader) Balances(batch int) ([]*BalanceEntry, error) {
	if batch <= 0 {
		batch = DefaultIteratorBatch
	}

	sessionID, iter, err := c.ListBalances()
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}

	// Sessions are disabled on the server, the iterator is already expanded.
	if iter.ID == nil {
		return BalanceEntries(iter.Values)
	}

	defer func() {
		_ = c.invoker.TerminateSession(sessionID)
	}()

	var res []*BalanceEntry
	for {
		items, err := c.invoker.TraverseIterator(sessionID, &iter, batch)
		if err != nil {
			return nil, fmt.Errorf("traverse balances iterator: %w", err)
		}

		entries, err := BalanceEntries(items)
		if err != nil {
			return nil, err
		}
		res = append(res, entries...)

		if len(items) < batch {
			return res, nil
		}
	}
}

// BalanceEntries decodes key-value items produced by `listBalances`.
func BalanceEntries(items []stackitem.Item) ([]*BalanceEntry, error) {
	res := make([]*BalanceEntry, 0, len(items))
	for i := range items {
		e := new(BalanceEntry)
		if err := e.FromStackItem(items[i]); err != nil {
			return nil, fmt.Errorf("balance entry #%d: %w", i, err)
		}
		res = append(res, e)
	}
	return res, nil
}
