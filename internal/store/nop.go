package store

import (
	"time"

	"github.com/amishk599/atsmatch/internal/model"
)

var _ model.HistoryStore = (*NopStore)(nil)

// NopStore is used when history is disabled. It remembers nothing, so every
// request reaches the model.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Lookup(model.RecordKind, string) (*model.Record, error) { return nil, nil }
func (s *NopStore) Save(model.Record) error                                { return nil }
func (s *NopStore) Recent(int) ([]model.Record, error)                     { return nil, nil }
func (s *NopStore) Cleanup(time.Duration) error                            { return nil }
