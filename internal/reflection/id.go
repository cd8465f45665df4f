package reflection

import (
	"encoding/binary"
	"sync"

	"github.com/gofrs/uuid"
)

// ClassID identifies one compiled class for the lifetime of the process.
type ClassID uuid.UUID

func (id ClassID) String() string {
	return uuid.UUID(id).String()
}

// ParseClassID accepts the canonical textual form and the other forms
// understood by uuid.FromString.
func ParseClassID(text string) (ClassID, error) {
	id, err := uuid.FromString(text)
	return ClassID(id), err
}

type IDGenerator interface {
	NextID() ClassID
}

// RandomIDs mints version 4 UUIDs.
type RandomIDs struct{}

func (RandomIDs) NextID() ClassID {
	return ClassID(uuid.Must(uuid.NewV4()))
}

// SequentialIDs mints 00000000-0000-0000-0000-000000000000,
// 00000000-0000-0000-0000-000000000001 and so on. Output that embeds class
// ids stays stable across runs this way.
type SequentialIDs struct {
	mutex sync.Mutex
	next  uint64
}

func (g *SequentialIDs) NextID() ClassID {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	var id ClassID
	binary.BigEndian.PutUint64(id[8:], g.next)
	g.next++
	return id
}
