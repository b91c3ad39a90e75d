package journal

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	"github.com/exmatch/exchange/internal/types"
)

// TradeJournal is a durable, append-only trade ledger on pebble. Keys sort
// lexicographically by execution time so chronological scans are plain
// iterator walks:
//
//	trade/<unixnano:020d>/<trade_id>         -> trade JSON
//	order/<order_id>/<unixnano:020d>/<id>    -> primary key (maker and taker)
//
// It implements storage.TradeStore; Save is fsynced so every executed trade
// survives a crash even when the relational store lags behind.
type TradeJournal struct {
	db *pebble.DB
}

// Open opens (or creates) the journal at dir.
func Open(dir string) (*TradeJournal, error) {
	db, err := pebble.Open(dir, &pebble.Options{
		DisableWAL: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open trade journal: %w", err)
	}
	return &TradeJournal{db: db}, nil
}

func (j *TradeJournal) Save(trade *types.Trade) error {
	data, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}

	key := tradeKey(trade)
	batch := j.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(key, data, nil); err != nil {
		return err
	}
	for _, orderID := range []uuid.UUID{trade.MakerOrderID, trade.TakerOrderID} {
		if err := batch.Set(orderKey(orderID, trade), key, nil); err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (j *TradeJournal) SaveBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	batch := j.db.NewBatch()
	defer batch.Close()

	for _, trade := range trades {
		data, err := json.Marshal(trade)
		if err != nil {
			return fmt.Errorf("failed to marshal trade: %w", err)
		}
		key := tradeKey(trade)
		if err := batch.Set(key, data, nil); err != nil {
			return err
		}
		for _, orderID := range []uuid.UUID{trade.MakerOrderID, trade.TakerOrderID} {
			if err := batch.Set(orderKey(orderID, trade), key, nil); err != nil {
				return err
			}
		}
	}
	return batch.Commit(pebble.Sync)
}

func (j *TradeJournal) GetByOrder(orderID uuid.UUID) ([]*types.Trade, error) {
	prefix := []byte("order/" + orderID.String() + "/")
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: append(append([]byte{}, prefix...), 0xff),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var trades []*types.Trade
	for iter.First(); iter.Valid(); iter.Next() {
		trade, err := j.lookup(iter.Value())
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return trades, nil
}

func (j *TradeJournal) GetRecent(symbol string, limit int) ([]*types.Trade, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("trade/"),
		UpperBound: []byte("trade/~"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var trades []*types.Trade
	for iter.Last(); iter.Valid(); iter.Prev() {
		var trade types.Trade
		if err := json.Unmarshal(iter.Value(), &trade); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trade: %w", err)
		}
		if symbol != "" && trade.Symbol != symbol {
			continue
		}
		trades = append(trades, &trade)
		if limit > 0 && len(trades) >= limit {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return trades, nil
}

func (j *TradeJournal) Close() error {
	return j.db.Close()
}

func (j *TradeJournal) lookup(key []byte) (*types.Trade, error) {
	val, closer, err := j.db.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	var trade types.Trade
	if err := json.Unmarshal(val, &trade); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trade: %w", err)
	}
	return &trade, nil
}

func tradeKey(trade *types.Trade) []byte {
	return []byte(fmt.Sprintf("trade/%020d/%s", trade.ExecutedAt.UnixNano(), trade.ID))
}

func orderKey(orderID uuid.UUID, trade *types.Trade) []byte {
	return []byte(fmt.Sprintf("order/%s/%020d/%s", orderID, trade.ExecutedAt.UnixNano(), trade.ID))
}
