package boss

// AttackerTracker remembers the last actor that damaged each boss. It is
// owned by the tick goroutine and is not safe for concurrent use.
type AttackerTracker struct {
	last map[string]string
}

func NewAttackerTracker() *AttackerTracker {
	return &AttackerTracker{last: make(map[string]string)}
}

// Record notes attackerID as the latest attacker of bossID.
func (t *AttackerTracker) Record(bossID, attackerID string) {
	if attackerID == "" {
		return
	}
	t.last[bossID] = attackerID
}

// LastAttacker returns the most recent attacker of bossID.
func (t *AttackerTracker) LastAttacker(bossID string) (string, bool) {
	id, ok := t.last[bossID]
	return id, ok
}

// Clear drops the record and reports whether one existed.
func (t *AttackerTracker) Clear(bossID string) bool {
	if _, ok := t.last[bossID]; !ok {
		return false
	}
	delete(t.last, bossID)
	return true
}

func (t *AttackerTracker) Len() int {
	return len(t.last)
}
