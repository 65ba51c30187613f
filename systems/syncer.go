// Package systems copies simulation state onto the replicated entities
// clients see. It stays free of graphics packages so the server is headless.
package systems

import "github.com/yohamta/donburi"

// Syncer marks freshly created entities for network replication.
type Syncer interface {
	SyncBoss(entity *donburi.Entity) error
	SyncPlayer(entity *donburi.Entity) error
	SyncLoot(entity *donburi.Entity) error
}

// NopSyncer replicates nothing. Useful for headless runs and tests.
type NopSyncer struct{}

func (NopSyncer) SyncBoss(*donburi.Entity) error   { return nil }
func (NopSyncer) SyncPlayer(*donburi.Entity) error { return nil }
func (NopSyncer) SyncLoot(*donburi.Entity) error   { return nil }
