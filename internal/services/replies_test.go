package services

import (
	"strings"
	"testing"
	"time"

	"anonboard/internal/db"
	"anonboard/internal/models"
)

func TestAddReply(t *testing.T) {
	db.InitTest(t)

	topicID, err := CreateTopic(10, "a topic to discuss")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	var before models.Topic
	db.DB.First(&before, topicID)

	time.Sleep(10 * time.Millisecond)

	replyID, authorID, err := AddReply(topicID, 11, "Hi there!")
	if err != nil {
		t.Fatalf("AddReply failed: %v", err)
	}
	if replyID == 0 {
		t.Fatal("expected a reply id")
	}
	if authorID != 10 {
		t.Errorf("author id = %d, want 10", authorID)
	}

	writer, err := GetStats(11)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if writer.RepliesWritten != 1 {
		t.Errorf("replies_written = %d, want 1", writer.RepliesWritten)
	}
	author, err := GetStats(10)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if author.RepliesReceived != 1 {
		t.Errorf("replies_received = %d, want 1", author.RepliesReceived)
	}

	var after models.Topic
	db.DB.First(&after, topicID)
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Error("reply should bump the topic's updated_at")
	}
}

func TestAddReplyGates(t *testing.T) {
	db.InitTest(t)

	_, _, err := AddReply(9999, 12, "into the void")
	if err != ErrTopicNotFound {
		t.Errorf("missing topic: got %v, want ErrTopicNotFound", err)
	}
	// Nothing may be written on a failed reply.
	var count int64
	db.DB.Model(&models.Reply{}).Count(&count)
	if count != 0 {
		t.Errorf("failed reply wrote %d rows", count)
	}

	topicID, err := CreateTopic(12, "short-lived topic")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	if _, _, err := AddReply(topicID, 13, "x"); err != ErrReplyTooShort {
		t.Errorf("one-char reply: got %v, want ErrReplyTooShort", err)
	}
	if _, _, err := AddReply(topicID, 13, strings.Repeat("b", ReplyMaxLen+1)); err != ErrReplyTooLong {
		t.Errorf("oversized reply: got %v, want ErrReplyTooLong", err)
	}

	if err := CloseTopic(topicID, 12); err != nil {
		t.Fatalf("CloseTopic failed: %v", err)
	}
	if _, _, err := AddReply(topicID, 13, "too late"); err != ErrTopicClosed {
		t.Errorf("closed topic: got %v, want ErrTopicClosed", err)
	}

	if _, err := BanUser(13, "spam", 1, 7); err != nil {
		t.Fatalf("BanUser failed: %v", err)
	}
	if _, _, err := AddReply(topicID, 13, "banned words"); err != ErrBanned {
		t.Errorf("banned user: got %v, want ErrBanned", err)
	}
}

func TestRepliesPage(t *testing.T) {
	db.InitTest(t)

	topicID, err := CreateTopic(14, "topic with replies")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	for i := 0; i < 7; i++ {
		if _, _, err := AddReply(topicID, 15, "reply number words"); err != nil {
			t.Fatalf("AddReply %d failed: %v", i, err)
		}
	}

	page, err := RepliesPage(topicID, 0, PageSize)
	if err != nil {
		t.Fatalf("RepliesPage failed: %v", err)
	}
	if len(page) != PageSize {
		t.Errorf("first page has %d replies, want %d", len(page), PageSize)
	}

	rest, err := RepliesPage(topicID, PageSize, PageSize)
	if err != nil {
		t.Fatalf("RepliesPage failed: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("second page has %d replies, want 2", len(rest))
	}
	if rest[0].Username == "" {
		t.Error("reply view should carry the author's display name")
	}
}
