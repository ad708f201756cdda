package services

import (
	"testing"

	"anonboard/internal/db"
)

func TestRankFor(t *testing.T) {
	cases := []struct {
		topics, replies int
		want            string
	}{
		{0, 0, "Newcomer"},
		{4, 9, "Newcomer"},
		{5, 0, "Visitor"},   // topics ceiling of the first tier exceeded
		{0, 10, "Visitor"},  // replies ceiling of the first tier exceeded
		{20, 50, "Activist"},
		{300, 2000, "Legend"},
		{1000000, 1000000, "Legend"}, // off the ladder, terminal tier catches
	}

	for _, tc := range cases {
		got := RankFor(tc.topics, tc.replies)
		if got.Name != tc.want {
			t.Errorf("RankFor(%d, %d) = %s, want %s", tc.topics, tc.replies, got.Name, tc.want)
		}
	}
}

func TestRankMonotonic(t *testing.T) {
	// Raising either counter must never lower the tier index.
	probes := []int{0, 1, 4, 5, 9, 10, 24, 25, 54, 100, 500, 2000, 999999, 1000000}
	for _, topics := range probes {
		for _, replies := range probes {
			base := RankIndexFor(topics, replies)
			if up := RankIndexFor(topics+1, replies); up < base {
				t.Fatalf("rank dropped %d->%d when topics went %d->%d (replies %d)",
					base, up, topics, topics+1, replies)
			}
			if up := RankIndexFor(topics, replies+1); up < base {
				t.Fatalf("rank dropped %d->%d when replies went %d->%d (topics %d)",
					base, up, replies, replies+1, topics)
			}
		}
	}
}

func TestRankLadderOrdered(t *testing.T) {
	for i := 1; i < len(RankLadder); i++ {
		prev, cur := RankLadder[i-1], RankLadder[i]
		if cur.MaxTopics < prev.MaxTopics || cur.MaxReplies < prev.MaxReplies {
			t.Errorf("ladder not in non-decreasing ceiling order at %d: %+v -> %+v", i, prev, cur)
		}
	}
}

func TestStatsLazyRow(t *testing.T) {
	db.InitTest(t)

	stats, err := GetStats(50)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TopicsCreated != 0 || stats.RepliesWritten != 0 || stats.RepliesReceived != 0 {
		t.Errorf("fresh stats should be zero: %+v", stats)
	}
}

func TestProfile(t *testing.T) {
	db.InitTest(t)

	if _, err := CreateTopic(51, "profile topic"); err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	view, err := Profile(51)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if view.Stats.TopicsCreated != 1 {
		t.Errorf("topics_created = %d, want 1", view.Stats.TopicsCreated)
	}
	if view.Rank.Name != "Newcomer" {
		t.Errorf("rank = %s, want Newcomer", view.Rank.Name)
	}
	if view.Username == "" {
		t.Error("profile should carry a display name")
	}
}
