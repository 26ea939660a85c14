package match

import (
	"context"
	"testing"

	"github.com/peermatch/backend/internal/models"
)

func TestCancelQueuedRequest(t *testing.T) {
	qs := newFakeQueueStore()
	fl := newFakeLedger()
	engine := newTestEngine(qs, fl, &fakeNotifier{}, &fakePublisher{})

	blob := enqueueMember(t, qs, "matchqueue:medium",
		waitingMember("req-1", "A", "Python", []string{"Algorithms"}, "medium"))
	fl.statuses["req-1"] = models.StatusPending

	result, err := engine.Cancel(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	if !result.Success {
		t.Errorf("Expected cancellation to succeed, got %+v", result)
	}
	if qs.contains("matchqueue:medium", blob) {
		t.Errorf("Cancelled request should have been removed from its queue")
	}
	if fl.statuses["req-1"] != models.StatusCancelled {
		t.Errorf("Request status = %q, want cancelled", fl.statuses["req-1"])
	}
}

func TestCancelNeverSucceedsTwice(t *testing.T) {
	qs := newFakeQueueStore()
	fl := newFakeLedger()
	engine := newTestEngine(qs, fl, &fakeNotifier{}, &fakePublisher{})

	enqueueMember(t, qs, "matchqueue:easy",
		waitingMember("req-1", "A", "Python", []string{"Algorithms"}, "easy"))
	fl.statuses["req-1"] = models.StatusPending

	first, err := engine.Cancel(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("First cancel failed: %v", err)
	}
	if !first.Success {
		t.Fatalf("First cancel should succeed, got %+v", first)
	}

	second, err := engine.Cancel(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Second cancel failed: %v", err)
	}
	if second.Success {
		t.Errorf("Second cancel of the same request must not succeed")
	}
	if second.Reason != "already matched or expired" {
		t.Errorf("Second cancel reason = %q, want 'already matched or expired'", second.Reason)
	}
}

func TestCancelUnknownRequest(t *testing.T) {
	engine := newTestEngine(newFakeQueueStore(), newFakeLedger(), &fakeNotifier{}, &fakePublisher{})

	result, err := engine.Cancel(context.Background(), "req-missing")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if result.Success {
		t.Errorf("Cancelling an unknown request must not succeed")
	}
	if result.Reason != "not found in active queues" {
		t.Errorf("Reason = %q, want 'not found in active queues'", result.Reason)
	}
}

func TestCancelPendingRequestNotYetInQueue(t *testing.T) {
	fl := newFakeLedger()
	fl.statuses["req-1"] = models.StatusPending
	engine := newTestEngine(newFakeQueueStore(), fl, &fakeNotifier{}, &fakePublisher{})

	result, err := engine.Cancel(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if result.Success {
		t.Errorf("Request not present in any queue must not cancel successfully")
	}
	if result.Reason != "not found in active queues" {
		t.Errorf("Reason = %q, want 'not found in active queues'", result.Reason)
	}
}

func TestCancelAlreadyMatchedRequest(t *testing.T) {
	fl := newFakeLedger()
	fl.statuses["req-1"] = models.StatusMatched
	engine := newTestEngine(newFakeQueueStore(), fl, &fakeNotifier{}, &fakePublisher{})

	result, err := engine.Cancel(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if result.Success {
		t.Errorf("A matched request must not be cancellable")
	}
	if result.Reason != "already matched or expired" {
		t.Errorf("Reason = %q, want 'already matched or expired'", result.Reason)
	}
}
