package services

import (
	"testing"

	"anonboard/internal/db"
)

func TestNotificationsDefaultOn(t *testing.T) {
	db.InitTest(t)

	enabled, err := NotificationsEnabled(60)
	if err != nil {
		t.Fatalf("NotificationsEnabled failed: %v", err)
	}
	if !enabled {
		t.Error("notifications should default to on")
	}
}

func TestToggleNotifications(t *testing.T) {
	db.InitTest(t)

	off, err := ToggleNotifications(61)
	if err != nil {
		t.Fatalf("ToggleNotifications failed: %v", err)
	}
	if off {
		t.Error("first toggle should turn notifications off")
	}

	enabled, err := NotificationsEnabled(61)
	if err != nil {
		t.Fatalf("NotificationsEnabled failed: %v", err)
	}
	if enabled {
		t.Error("pref should read back as off")
	}

	on, err := ToggleNotifications(61)
	if err != nil {
		t.Fatalf("second ToggleNotifications failed: %v", err)
	}
	if !on {
		t.Error("second toggle should turn notifications back on")
	}
}
