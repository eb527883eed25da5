package transaction

import (
	"sync"

	"github.com/google/uuid"
)

// inflight rejects a second operation on a key while the first is pending.
// It does not queue: the caller gets ErrOperationInProgress immediately.
type inflight struct {
	pending sync.Map
}

func (g *inflight) acquire(key string) (release func(), err error) {
	if _, busy := g.pending.LoadOrStore(key, struct{}{}); busy {
		return nil, ErrOperationInProgress
	}
	return func() { g.pending.Delete(key) }, nil
}

func createKey(userID, accountID uuid.UUID) string {
	return "create:" + userID.String() + ":" + accountID.String()
}

func transactionKey(id uuid.UUID) string {
	return "tx:" + id.String()
}
