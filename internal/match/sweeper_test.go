package match

import (
	"context"
	"testing"
	"time"

	"github.com/peermatch/backend/internal/models"
)

func TestSweepExpiresDueMembersOnly(t *testing.T) {
	qs := newFakeQueueStore()
	fl := newFakeLedger()
	engine := newTestEngine(qs, fl, &fakeNotifier{}, &fakePublisher{})

	now := time.Now()

	expired := waitingMember("req-old", "A", "Python", []string{"Algorithms"}, "medium")
	expired.ExpiresAt = now.Add(-10 * time.Second).Unix()
	expiredBlob := enqueueMember(t, qs, "matchqueue:medium", expired)

	fresh := waitingMember("req-new", "B", "Python", []string{"Algorithms"}, "medium")
	fresh.ExpiresAt = now.Add(100 * time.Second).Unix()
	freshBlob := enqueueMember(t, qs, "matchqueue:medium", fresh)

	fl.statuses["req-old"] = models.StatusPending
	fl.statuses["req-new"] = models.StatusPending

	engine.SweepOnce(context.Background(), now)

	if qs.contains("matchqueue:medium", expiredBlob) {
		t.Errorf("Expired member should have been swept")
	}
	if !qs.contains("matchqueue:medium", freshBlob) {
		t.Errorf("Member with future expiry must be untouched by the sweep")
	}
	if fl.statuses["req-old"] != models.StatusExpired {
		t.Errorf("Swept request status = %q, want expired", fl.statuses["req-old"])
	}
	if fl.statuses["req-new"] != models.StatusPending {
		t.Errorf("Fresh request status = %q, want pending", fl.statuses["req-new"])
	}
}

func TestSweepSkipsUnparseableEntries(t *testing.T) {
	qs := newFakeQueueStore()
	fl := newFakeLedger()
	engine := newTestEngine(qs, fl, &fakeNotifier{}, &fakePublisher{})

	now := time.Now()
	if _, err := qs.AddMember(context.Background(), "matchqueue:easy", now.Add(-5*time.Second).Unix(), "garbage"); err != nil {
		t.Fatalf("Failed to add garbage: %v", err)
	}
	expired := waitingMember("req-old", "A", "Go", []string{"Sorting"}, "easy")
	expired.ExpiresAt = now.Add(-5 * time.Second).Unix()
	enqueueMember(t, qs, "matchqueue:easy", expired)
	fl.statuses["req-old"] = models.StatusPending

	engine.SweepOnce(context.Background(), now)

	if qs.size("matchqueue:easy") != 0 {
		t.Errorf("All due entries including garbage should leave the queue")
	}
	if fl.statuses["req-old"] != models.StatusExpired {
		t.Errorf("Valid swept request must still be marked expired despite garbage in the batch")
	}
	if len(fl.expiredBatches) != 1 || len(fl.expiredBatches[0]) != 1 {
		t.Errorf("Expected one batch with the single parseable id, got %v", fl.expiredBatches)
	}
}

func TestSweepBatchesPerQueue(t *testing.T) {
	qs := newFakeQueueStore()
	fl := newFakeLedger()
	engine := newTestEngine(qs, fl, &fakeNotifier{}, &fakePublisher{})

	now := time.Now()
	members := []models.QueueMember{
		waitingMember("req-a", "A", "Python", []string{"Algorithms"}, "easy"),
		waitingMember("req-b", "B", "Python", []string{"Algorithms"}, "medium"),
	}
	for _, m := range members {
		m.ExpiresAt = now.Add(-1 * time.Second).Unix()
		enqueueMember(t, qs, "matchqueue:"+m.Difficulty, m)
		fl.statuses[m.RequestID] = models.StatusPending
	}

	engine.SweepOnce(context.Background(), now)

	// One multi-row ledger update per queue, not per member
	if len(fl.expiredBatches) != 2 {
		t.Errorf("Expected one expiry batch per swept queue, got %d", len(fl.expiredBatches))
	}
	if fl.statuses["req-a"] != models.StatusExpired || fl.statuses["req-b"] != models.StatusExpired {
		t.Errorf("Both swept requests should be expired: %v", fl.statuses)
	}
}
