package badger

import (
	"github.com/minwooahn/newslens/internal/common"
	"github.com/minwooahn/newslens/internal/interfaces"
)

// Manager owns the single BadgerHold store and hands out the typed storage
// areas over it.
type Manager struct {
	store   *Store
	reports interfaces.ReportStorage
	news    interfaces.NewsStorage
	kv      interfaces.KeyValueStorage
}

// NewManager opens the store at path and wires the storage areas.
func NewManager(logger *common.Logger, path string) (*Manager, error) {
	store, err := NewStore(logger, path)
	if err != nil {
		return nil, err
	}

	return &Manager{
		store:   store,
		reports: NewReportStorage(store, logger),
		news:    NewNewsStorage(store, logger),
		kv:      NewKVStorage(store, logger),
	}, nil
}

func (m *Manager) ReportStorage() interfaces.ReportStorage {
	return m.reports
}

func (m *Manager) NewsStorage() interfaces.NewsStorage {
	return m.news
}

func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
