package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/exmatch/exchange/internal/types"
)

// TradeStore implements storage.TradeStore with a bounded in-memory buffer
// plus a per-order index for ledger lookups. When maxSize is exceeded the
// oldest trades are dropped from the recent buffer; the per-order index is
// trimmed with them.
type TradeStore struct {
	mu      sync.RWMutex
	trades  []*types.Trade // append order == execution order
	byOrder map[uuid.UUID][]*types.Trade
	maxSize int
}

// NewTradeStore creates an in-memory trade store with a size limit.
func NewTradeStore(maxSize int) *TradeStore {
	return &TradeStore{
		byOrder: make(map[uuid.UUID][]*types.Trade),
		maxSize: maxSize,
	}
}

func (s *TradeStore) Save(trade *types.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(trade)
	return nil
}

func (s *TradeStore) SaveBatch(trades []*types.Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, trade := range trades {
		s.save(trade)
	}
	return nil
}

func (s *TradeStore) save(trade *types.Trade) {
	s.trades = append(s.trades, trade)
	s.byOrder[trade.MakerOrderID] = append(s.byOrder[trade.MakerOrderID], trade)
	s.byOrder[trade.TakerOrderID] = append(s.byOrder[trade.TakerOrderID], trade)

	if s.maxSize > 0 && len(s.trades) > s.maxSize {
		evicted := s.trades[0]
		s.trades = s.trades[1:]
		s.dropFromIndex(evicted.MakerOrderID, evicted.ID)
		s.dropFromIndex(evicted.TakerOrderID, evicted.ID)
	}
}

func (s *TradeStore) dropFromIndex(orderID, tradeID uuid.UUID) {
	entries := s.byOrder[orderID]
	for i, t := range entries {
		if t.ID == tradeID {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(s.byOrder, orderID)
	} else {
		s.byOrder[orderID] = entries
	}
}

func (s *TradeStore) GetByOrder(orderID uuid.UUID) ([]*types.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.byOrder[orderID]
	out := make([]*types.Trade, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *TradeStore) GetRecent(symbol string, limit int) ([]*types.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.trades) {
		limit = len(s.trades)
	}

	// Walk backwards so the newest trades come first.
	out := make([]*types.Trade, 0, limit)
	for i := len(s.trades) - 1; i >= 0 && len(out) < limit; i-- {
		if symbol != "" && s.trades[i].Symbol != symbol {
			continue
		}
		out = append(out, s.trades[i])
	}
	return out, nil
}

func (s *TradeStore) Close() error {
	return nil
}
