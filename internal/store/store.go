package store

import (
	"sync"

	"github.com/zombor/statement-import/internal/importer"
)

// Listener receives a full snapshot of the stored transactions. It must not
// call Subscribe or SetTransactions.
type Listener func(transactions []importer.TransactionRecord)

type subscription struct {
	id       int
	listener Listener
}

// Store holds the latest imported transactions and notifies subscribers when
// they are replaced. Reads and subscriptions are open to anyone holding the
// Store; replacing the snapshot requires the Writer returned alongside it.
type Store struct {
	mu            sync.RWMutex
	transactions  []importer.TransactionRecord
	subscriptions []subscription
	nextID        int

	// serializes notifications so listeners see snapshots in replacement order
	emitMu sync.Mutex
}

// Writer is the only handle able to replace the stored transactions
type Writer struct {
	store *Store
}

// New creates an empty Store and its Writer
func New() (*Store, *Writer) {
	s := &Store{transactions: make([]importer.TransactionRecord, 0)}
	return s, &Writer{store: s}
}

// Transactions returns a copy of the current snapshot
func (s *Store) Transactions() []importer.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.transactions)
}

// Subscribe registers a listener, calls it once with the current snapshot and
// returns a function that removes it
func (s *Store) Subscribe(listener Listener) func() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscriptions = append(s.subscriptions, subscription{id: id, listener: listener})
	snapshot := clone(s.transactions)
	s.mu.Unlock()

	listener(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscriptions {
		if sub.id == id {
			s.subscriptions = append(s.subscriptions[:i:i], s.subscriptions[i+1:]...)
			return
		}
	}
}

// SetTransactions replaces the stored snapshot and notifies every subscriber
// in subscription order
func (w *Writer) SetTransactions(transactions []importer.TransactionRecord) {
	s := w.store

	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.transactions = clone(transactions)
	subscriptions := append([]subscription(nil), s.subscriptions...)
	s.mu.Unlock()

	for _, sub := range subscriptions {
		sub.listener(s.Transactions())
	}
}

func clone(transactions []importer.TransactionRecord) []importer.TransactionRecord {
	out := make([]importer.TransactionRecord, len(transactions))
	copy(out, transactions)
	return out
}
