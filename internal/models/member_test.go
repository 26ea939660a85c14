package models

import (
	"testing"
	"time"
)

func TestQueueMemberRoundTrip(t *testing.T) {
	member := QueueMember{
		RequestID:  "req-1",
		UserID:     "A",
		Language:   "Python",
		Topics:     []string{"Algorithms", "Data Structures"},
		Difficulty: DifficultyMedium,
		ExpiresAt:  time.Now().Add(300 * time.Second).Unix(),
	}

	blob, err := member.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := DecodeQueueMember(blob)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.RequestID != member.RequestID || decoded.UserID != member.UserID {
		t.Errorf("Round trip mismatch: %+v != %+v", decoded, member)
	}
	if decoded.ExpiresAt != member.ExpiresAt {
		t.Errorf("ExpiresAt mismatch: %d != %d", decoded.ExpiresAt, member.ExpiresAt)
	}
}

func TestDecodeRejectsMalformedBlobs(t *testing.T) {
	cases := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"empty object", "{}"},
		{"missing user", `{"request_id":"r","language":"Go","difficulty":"easy","expires_at":1}`},
		{"missing language", `{"request_id":"r","user_id":"A","difficulty":"easy","expires_at":1}`},
		{"bad difficulty", `{"request_id":"r","user_id":"A","language":"Go","difficulty":"extreme","expires_at":1}`},
		{"zero expiry", `{"request_id":"r","user_id":"A","language":"Go","difficulty":"easy","expires_at":0}`},
	}

	for _, tc := range cases {
		if _, err := DecodeQueueMember(tc.blob); err == nil {
			t.Errorf("%s: expected decode error for %q", tc.name, tc.blob)
		}
	}
}

func TestTopicIntersection(t *testing.T) {
	shared := TopicIntersection(
		[]string{"Algorithms", "Data Structures"},
		[]string{"Algorithms", "Graph Theory"},
	)
	if len(shared) != 1 || shared[0] != "Algorithms" {
		t.Errorf("Intersection = %v, want [Algorithms]", shared)
	}

	if shared := TopicIntersection([]string{"Sorting"}, []string{"Graphs"}); shared != nil {
		t.Errorf("Disjoint sets should intersect to nothing, got %v", shared)
	}

	// Duplicates on either side collapse to a single shared entry
	if shared := TopicIntersection([]string{"A", "A"}, []string{"A"}); len(shared) != 1 {
		t.Errorf("Duplicate topics should not repeat in the intersection, got %v", shared)
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if !ValidDifficulty(d) {
			t.Errorf("%q should be valid", d)
		}
	}
	if ValidDifficulty("extreme") || ValidDifficulty("") {
		t.Errorf("Unknown difficulties must be rejected")
	}
}
