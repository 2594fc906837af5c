package game

import "testing"

func TestLedgerCounters(t *testing.T) {
	l := NewEntityLifecycleLedger()

	for i := 0; i < 3; i++ {
		l.OnSpawned()
	}
	l.OnDied(25)
	l.OnDied(25)

	snap := l.Snapshot()
	want := LedgerSnapshot{LiveCount: 1, TotalKills: 2, TotalReward: 50}
	if snap != want {
		t.Errorf("Snapshot() = %+v, want %+v", snap, want)
	}
	if l.LiveCount() != 1 {
		t.Errorf("LiveCount() = %d, want 1", l.LiveCount())
	}
}

func TestLedgerLiveCountNeverNegative(t *testing.T) {
	l := NewEntityLifecycleLedger()

	l.OnDied(30)
	snap := l.Snapshot()
	if snap.LiveCount != 0 {
		t.Errorf("liveCount should be floored at 0, got %d", snap.LiveCount)
	}
	// 死亡仍然计入击杀和奖励
	if snap.TotalKills != 1 || snap.TotalReward != 30 {
		t.Errorf("unexpected counters %+v", snap)
	}

	l.OnDied(-10)
	if l.Snapshot().TotalReward != 30 {
		t.Errorf("negative reward must not reduce totalReward, got %d", l.Snapshot().TotalReward)
	}
}

func TestLedgerReset(t *testing.T) {
	l := NewEntityLifecycleLedger()
	l.OnSpawned()
	l.OnSpawned()
	l.OnDied(25)

	l.Reset()
	if l.Snapshot() != (LedgerSnapshot{}) {
		t.Errorf("Reset() should zero all counters, got %+v", l.Snapshot())
	}
}
