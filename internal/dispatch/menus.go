package dispatch

import (
	"fmt"
	"time"

	"anonboard/internal/services"
	"anonboard/internal/text"
)

func formatTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

func formatTopic(t *services.TopicView) string {
	return fmt.Sprintf("Topic #%d\nby %s · %s · %d replies\n\n%s",
		t.ID, t.Username, formatTime(t.CreatedAt), t.ReplyCount,
		text.RenderChatHTML(t.Text))
}

func formatTopicLine(t services.TopicView) string {
	return fmt.Sprintf("#%d by %s · %s\n%s",
		t.ID, t.Username, formatTime(t.CreatedAt), text.RenderChatHTML(t.Text))
}

func formatReply(r services.ReplyView) string {
	return fmt.Sprintf("%s · %s\n%s",
		r.Username, formatTime(r.CreatedAt), text.RenderChatHTML(r.Text))
}

func mainMenu() []Button {
	return []Button{
		{Label: "Feed", Token: "feed:0"},
		{Label: "Random", Token: "random"},
		{Label: "Popular", Token: "top"},
		{Label: "Profile", Token: "profile"},
	}
}

func topicMenu(topicID uint, viewerIsAuthor bool) []Button {
	menu := []Button{
		{Label: "Reply", Token: fmt.Sprintf("reply:%d", topicID)},
		{Label: "Report", Token: fmt.Sprintf("report:%d", topicID)},
		{Label: "Replies", Token: fmt.Sprintf("replies:%d:0", topicID)},
	}
	if viewerIsAuthor {
		menu = append(menu,
			Button{Label: "Close", Token: fmt.Sprintf("close_topic:%d", topicID)},
			Button{Label: "Delete", Token: fmt.Sprintf("delete_topic:%d", topicID)},
		)
	}
	return menu
}

func feedNav(offset int, hasMore bool) []Button {
	var menu []Button
	if offset > 0 {
		prev := offset - services.PageSize
		if prev < 0 {
			prev = 0
		}
		menu = append(menu, Button{Label: "Back", Token: fmt.Sprintf("feed:%d", prev)})
	}
	if hasMore {
		menu = append(menu, Button{Label: "More", Token: fmt.Sprintf("feed:%d", offset+services.PageSize)})
	}
	return menu
}

func repliesNav(topicID uint, offset int, hasMore bool) []Button {
	var menu []Button
	if offset > 0 {
		prev := offset - services.PageSize
		if prev < 0 {
			prev = 0
		}
		menu = append(menu, Button{Label: "Back", Token: fmt.Sprintf("replies:%d:%d", topicID, prev)})
	}
	if hasMore {
		menu = append(menu, Button{Label: "More", Token: fmt.Sprintf("replies:%d:%d", topicID, offset+services.PageSize)})
	}
	return menu
}

func profileMenu() []Button {
	return []Button{
		{Label: "Change name", Token: "change_name"},
		{Label: "Notifications", Token: "toggle_notify"},
	}
}

func reportCardMenu(topicID, reportID uint) []Button {
	return []Button{
		{Label: "Delete topic", Token: fmt.Sprintf("admin_del:%d:%d", topicID, reportID)},
		{Label: "Ban 7d", Token: fmt.Sprintf("admin_ban:%d:%d:7", topicID, reportID)},
		{Label: "Ban 30d", Token: fmt.Sprintf("admin_ban:%d:%d:30", topicID, reportID)},
		{Label: "Reject", Token: fmt.Sprintf("admin_reject:%d", reportID)},
	}
}
