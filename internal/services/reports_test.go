package services

import (
	"testing"

	"anonboard/internal/db"
	"anonboard/internal/models"
)

func TestFileReport(t *testing.T) {
	db.InitTest(t)

	topicID, err := CreateTopic(20, "reportable topic")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	reportID, err := FileReport(topicID, 21, "offensive")
	if err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}
	if reportID == 0 {
		t.Fatal("expected a report id")
	}

	var report models.Report
	if err := db.DB.First(&report, reportID).Error; err != nil {
		t.Fatalf("report not stored: %v", err)
	}
	if report.Status != models.ReportStatusPending {
		t.Errorf("status = %q, want pending", report.Status)
	}
}

func TestDuplicatePendingReport(t *testing.T) {
	db.InitTest(t)

	topicID, err := CreateTopic(22, "reported twice")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if _, err := FileReport(topicID, 23, "first"); err != nil {
		t.Fatalf("first FileReport failed: %v", err)
	}

	if _, err := FileReport(topicID, 23, "second"); err != ErrDuplicateReport {
		t.Fatalf("second report: got %v, want ErrDuplicateReport", err)
	}

	var count int64
	db.DB.Model(&models.Report{}).Where("topic_id = ? AND reporter_id = ?", topicID, 23).Count(&count)
	if count != 1 {
		t.Errorf("duplicate report inserted a row, count = %d", count)
	}

	// A different reporter is still allowed.
	if _, err := FileReport(topicID, 24, "me too"); err != nil {
		t.Errorf("second reporter should be allowed: %v", err)
	}
}

func TestReportOnMissingTopic(t *testing.T) {
	db.InitTest(t)

	if _, err := FileReport(777, 25, "ghost"); err != ErrTopicNotFound {
		t.Errorf("got %v, want ErrTopicNotFound", err)
	}
}

func TestResolveReport(t *testing.T) {
	db.InitTest(t)

	topicID, err := CreateTopic(26, "to be moderated")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	reportID, err := FileReport(topicID, 27, "bad")
	if err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}

	if err := ResolveReport(reportID, "deleted", 1); err != nil {
		t.Fatalf("ResolveReport failed: %v", err)
	}

	var report models.Report
	db.DB.First(&report, reportID)
	if report.Status != models.ReportStatusResolved {
		t.Errorf("status = %q, want resolved", report.Status)
	}
	if report.AdminAction != "deleted" {
		t.Errorf("admin_action = %q, want deleted", report.AdminAction)
	}
	if report.AdminID == nil || *report.AdminID != 1 {
		t.Error("admin_id should record the resolver")
	}
	if report.ResolvedAt == nil {
		t.Error("resolved_at should be set")
	}

	// Terminal: neither transition may run again.
	if err := ResolveReport(reportID, "deleted", 1); err != ErrReportHandled {
		t.Errorf("re-resolve: got %v, want ErrReportHandled", err)
	}
	if err := RejectReport(reportID, 1); err != ErrReportHandled {
		t.Errorf("reject after resolve: got %v, want ErrReportHandled", err)
	}
}

func TestRejectReport(t *testing.T) {
	db.InitTest(t)

	topicID, err := CreateTopic(28, "falsely accused")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	reportID, err := FileReport(topicID, 29, "nothing really")
	if err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}

	if err := RejectReport(reportID, 1); err != nil {
		t.Fatalf("RejectReport failed: %v", err)
	}
	var report models.Report
	db.DB.First(&report, reportID)
	if report.Status != models.ReportStatusRejected {
		t.Errorf("status = %q, want rejected", report.Status)
	}

	// Rejected is not pending, so the same reporter may file again.
	if _, err := FileReport(topicID, 29, "again"); err != nil {
		t.Errorf("report after rejection should be allowed: %v", err)
	}
}

func TestPendingReportsQueue(t *testing.T) {
	db.InitTest(t)

	topicID, err := CreateTopic(30, "queued topic")
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if _, err := FileReport(topicID, 31, "check this"); err != nil {
		t.Fatalf("FileReport failed: %v", err)
	}

	queue, err := PendingReports()
	if err != nil {
		t.Fatalf("PendingReports failed: %v", err)
	}
	if len(queue) != 1 {
		t.Fatalf("expected 1 pending report, got %d", len(queue))
	}
	if queue[0].TopicText != "queued topic" {
		t.Errorf("queue should carry the topic text, got %q", queue[0].TopicText)
	}
	if queue[0].Username == "" {
		t.Error("queue should carry the author's display name")
	}
}
