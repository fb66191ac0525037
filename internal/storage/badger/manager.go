package badger

import (
	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/ternarybob/arbor"
)

// Manager wires the storage implementations onto a shared Badger connection
type Manager struct {
	db       *BadgerDB
	vector   interfaces.VectorStorage
	tracking interfaces.TrackingStorage
	logger   arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, storageConfig *common.BadgerConfig, collection string) (*Manager, error) {
	db, err := NewBadgerDB(logger, storageConfig)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:       db,
		vector:   NewVectorStorage(db, collection, logger),
		tracking: NewTrackingStorage(db, logger),
		logger:   logger,
	}

	logger.Info().Str("collection", collection).Msg("Badger storage manager initialized")

	return manager, nil
}

// VectorStorage returns the vector storage interface
func (m *Manager) VectorStorage() interfaces.VectorStorage {
	return m.vector
}

// TrackingStorage returns the tracking storage interface
func (m *Manager) TrackingStorage() interfaces.TrackingStorage {
	return m.tracking
}

// RunGC triggers a value log garbage collection pass
func (m *Manager) RunGC() {
	m.db.RunGC()
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
