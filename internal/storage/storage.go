package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/benbeisheim/emailchess-backend/internal/model"
)

var ErrNotFound = errors.New("snapshot not found")

const (
	boardKeyPrefix = "board/"
	seatsKeyPrefix = "seats/"
)

// Storage keeps the latest board of every game in BadgerDB. A record is the
// side to move followed by the fixed-width board encoding.
type Storage struct {
	db *badger.DB
}

// Open opens the store in dir, or an in-memory store when dir is empty.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func boardKey(gameID string) []byte {
	return []byte(boardKeyPrefix + gameID)
}

func seatsKey(gameID string) []byte {
	return []byte(seatsKeyPrefix + gameID)
}

// Save replaces the stored board of gameID.
func (s *Storage) Save(gameID string, b *model.Board) error {
	encoded := model.Encode(b)
	record := make([]byte, 0, 1+model.EncodedSize)
	record = append(record, byte(b.Turn()))
	record = append(record, encoded[:]...)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(boardKey(gameID), record)
	})
}

// Load returns the stored board of gameID, or ErrNotFound.
func (s *Storage) Load(gameID string) (*model.Board, error) {
	var record []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(boardKey(gameID))
		if err != nil {
			return err
		}
		record, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	if len(record) != 1+model.EncodedSize {
		return nil, fmt.Errorf("load game %s: %w: record is %d bytes", gameID, model.ErrDecodeFailed, len(record))
	}
	turn := model.Side(record[0])
	if turn > model.White {
		return nil, fmt.Errorf("load game %s: %w: unknown side to move %d", gameID, model.ErrDecodeFailed, record[0])
	}
	b, err := model.Decode(record[1:], turn)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	return b, nil
}

// SaveSeats replaces the stored seating of gameID.
func (s *Storage) SaveSeats(gameID string, seats model.Seats) error {
	record, err := json.Marshal(seats)
	if err != nil {
		return fmt.Errorf("save seats of game %s: %w", gameID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(seatsKey(gameID), record)
	})
}

// LoadSeats returns the stored seating of gameID. A game nobody joined has
// no record and comes back with open seats.
func (s *Storage) LoadSeats(gameID string) (model.Seats, error) {
	var seats model.Seats
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(seatsKey(gameID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &seats)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.Seats{}, nil
	}
	if err != nil {
		return model.Seats{}, fmt.Errorf("load seats of game %s: %w", gameID, err)
	}
	return seats, nil
}

// Delete removes the board and seating of gameID.
func (s *Storage) Delete(gameID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(boardKey(gameID)); err != nil {
			return err
		}
		return txn.Delete(seatsKey(gameID))
	})
}

// GameIDs lists every game with a stored board.
func (s *Storage) GameIDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(boardKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			ids = append(ids, string(key[len(boardKeyPrefix):]))
		}
		return nil
	})
	return ids, err
}
