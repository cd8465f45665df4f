package reflection

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrDuplicateClass = errors.New("class id registered twice")

// Record is everything known about one compiled class.
type Record struct {
	ID        ClassID
	Name      string
	Filename  string
	Namespace string
	Docblock  string
	Class     ClassShape
}

// FQCN joins the namespace and the class name with a dot.
func (r *Record) FQCN() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

// Store keeps the records of every class compiled by the process. Records
// are written once and never removed.
type Store struct {
	mutex   sync.RWMutex
	records map[ClassID]*Record
}

func NewStore() *Store {
	return &Store{records: make(map[ClassID]*Record)}
}

// Register panics with ErrDuplicateClass if the id is already taken. Ids are
// minted by the compiler, so a collision is a bug.
func (s *Store) Register(record *Record) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.records[record.ID]; ok {
		panic(fmt.Errorf("%w: %s", ErrDuplicateClass, record.ID))
	}
	s.records[record.ID] = record
}

func (s *Store) Get(id ClassID) (*Record, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	record, ok := s.records[id]
	return record, ok
}

// Lookup parses the id first. Text that is not a UUID is simply unknown.
func (s *Store) Lookup(text string) (*Record, bool) {
	id, err := ParseClassID(text)
	if err != nil {
		return nil, false
	}
	return s.Get(id)
}

func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.records)
}

// IDs lists every registered id in ascending order.
func (s *Store) IDs() []ClassID {
	s.mutex.RLock()
	ids := make([]ClassID, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	s.mutex.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}
