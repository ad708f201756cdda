package dispatch

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"anonboard/internal/cache"
	"anonboard/internal/conversation"
	"anonboard/internal/services"
	"anonboard/internal/text"
	"anonboard/pkg/apperrors"
)

const popularFeedKey = "feed:popular"
const popularFeedTTL = 60 * time.Second

// Button is one action the dispatcher renders under a message.
type Button struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Response is what the platform dispatcher renders: display text plus the
// next action menu. The core never renders UI beyond this pair.
type Response struct {
	Text string   `json:"text"`
	Menu []Button `json:"menu,omitempty"`
}

// Dispatcher maps inbound events to the rules engine. One instance serves
// all users; the tracker guards its own state.
type Dispatcher struct {
	tracker  *conversation.Tracker
	notifier Notifier
	cache    *cache.Cache
	adminID  int64
}

func New(tracker *conversation.Tracker, notifier Notifier, c *cache.Cache, adminID int64) *Dispatcher {
	return &Dispatcher{
		tracker:  tracker,
		notifier: notifier,
		cache:    c,
		adminID:  adminID,
	}
}

// HandleMessage interprets free text. A pending conversation state consumes
// the message; otherwise it is a fresh topic submission. The state comes out
// of the tracker first so a store failure cannot leave a flow looping.
func (d *Dispatcher) HandleMessage(senderID int64, body string) Response {
	st, ok := d.tracker.Take(senderID)

	if _, err := services.EnsureUsername(senderID); err != nil {
		return d.failure(err)
	}

	if !ok {
		return d.submitTopic(senderID, body)
	}

	switch s := st.(type) {
	case conversation.AwaitingReply:
		return d.submitReply(senderID, s.TopicID, body)
	case conversation.AwaitingUsername:
		return d.submitUsername(senderID, body)
	case conversation.AwaitingReportReason:
		return d.submitReport(senderID, s.TopicID, body)
	case conversation.AwaitingBanReason:
		return d.submitBan(senderID, s, body)
	case conversation.AwaitingDeleteReason:
		return d.submitDelete(senderID, s, body)
	default:
		return d.submitTopic(senderID, body)
	}
}

// HandleAction interprets a button token of the form name:arg:arg.
func (d *Dispatcher) HandleAction(senderID int64, token string) Response {
	if _, err := services.EnsureUsername(senderID); err != nil {
		return d.failure(err)
	}

	name, args := parseToken(token)
	if strings.HasPrefix(name, "admin_") && senderID != d.adminID {
		return Response{Text: "Access denied."}
	}

	switch name {
	case "start":
		return d.start(senderID)
	case "feed":
		return d.feed(argInt(args, 0))
	case "random":
		return d.random(senderID)
	case "top":
		return d.popular()
	case "view_topic":
		return d.viewTopic(senderID, argUint(args, 0), argInt(args, 1))
	case "replies":
		return d.replies(argUint(args, 0), argInt(args, 1))
	case "reply":
		return d.promptReply(senderID, argUint(args, 0))
	case "report":
		return d.promptReport(senderID, argUint(args, 0))
	case "profile":
		return d.profile(senderID)
	case "change_name":
		d.tracker.Set(senderID, conversation.AwaitingUsername{})
		return Response{Text: "Send your new name (3-12 characters, letters, digits and _)."}
	case "toggle_notify":
		return d.toggleNotify(senderID)
	case "close_topic":
		return d.closeTopic(senderID, argUint(args, 0))
	case "delete_topic":
		return d.deleteOwnTopic(senderID, argUint(args, 0))
	case "admin_reports":
		return d.adminReports()
	case "admin_bans":
		return d.adminBans()
	case "admin_del":
		return d.promptAdminDelete(senderID, argUint(args, 0), argUint(args, 1))
	case "admin_ban":
		// days == 0 is a deliberate permanent ban; a missing or mangled
		// argument must not become one.
		days, ok := argIntStrict(args, 2)
		if !ok || days < 0 {
			return Response{Text: "Malformed action token."}
		}
		return d.promptAdminBan(senderID, argUint(args, 0), argUint(args, 1), days)
	case "admin_reject":
		return d.adminReject(senderID, argUint(args, 0))
	case "admin_unban":
		return d.adminUnban(argInt64(args, 0))
	default:
		return Response{Text: "Unknown action.", Menu: mainMenu()}
	}
}

// ---- free-text flows ----

func (d *Dispatcher) submitTopic(senderID int64, body string) Response {
	id, err := services.CreateTopic(senderID, body)
	if err != nil {
		return d.failure(err)
	}

	view, err := services.GetTopic(id)
	if err != nil {
		return d.failure(err)
	}

	remaining, _, err := services.RemainingToday(senderID)
	if err != nil {
		return d.failure(err)
	}

	return Response{
		Text: fmt.Sprintf("Topic created (%d left today).\n\n%s", remaining, formatTopic(view)),
		Menu: topicMenu(id, true),
	}
}

func (d *Dispatcher) submitReply(senderID int64, topicID uint, body string) Response {
	_, authorID, err := services.AddReply(topicID, senderID, body)
	if err != nil {
		return d.failure(err)
	}

	if authorID != senderID {
		enabled, err := services.NotificationsEnabled(authorID)
		if err != nil {
			log.Printf("notification pref for %d: %v", authorID, err)
		} else if enabled {
			preview := text.Truncate(text.Normalize(body), 200)
			d.notify(authorID, "New reply to your topic:\n"+preview,
				fmt.Sprintf("view_topic:%d:0", topicID))
		}
	}

	return Response{
		Text: "Reply added.",
		Menu: []Button{{Label: "Open topic", Token: fmt.Sprintf("view_topic:%d:0", topicID)}},
	}
}

func (d *Dispatcher) submitUsername(senderID int64, body string) Response {
	err := services.SetUsername(senderID, body)
	if err == nil {
		return Response{Text: "Name updated to " + text.Normalize(body) + ".", Menu: profileMenu()}
	}
	if apperrors.IsCode(err, apperrors.CodeValidation) {
		// Recoverable: keep waiting so the user can retry.
		d.tracker.Set(senderID, conversation.AwaitingUsername{})
		return Response{Text: err.Error() + " Try another name."}
	}
	return d.failure(err)
}

func (d *Dispatcher) submitReport(senderID int64, topicID uint, body string) Response {
	reason := text.Normalize(body)
	if text.Length(reason) == 0 {
		return Response{Text: "Empty reason, report cancelled.", Menu: mainMenu()}
	}

	if _, err := services.FileReport(topicID, senderID, reason); err != nil {
		return d.failure(err)
	}
	return Response{Text: "Report filed. A moderator will take a look.", Menu: mainMenu()}
}

func (d *Dispatcher) submitBan(senderID int64, s conversation.AwaitingBanReason, body string) Response {
	reason := text.Normalize(body)
	if text.Length(reason) == 0 {
		return Response{Text: "Empty reason, ban cancelled.", Menu: mainMenu()}
	}

	expiresAt, err := services.BanUser(s.TargetID, reason, senderID, s.Days)
	if err != nil {
		return d.failure(err)
	}

	if s.ReportID != nil {
		action := "ban_permanent"
		if s.Days > 0 {
			action = fmt.Sprintf("ban_%dd", s.Days)
		}
		if err := services.ResolveReport(*s.ReportID, action, senderID); err != nil {
			log.Printf("resolve report %d: %v", *s.ReportID, err)
		}
	}

	until := "permanently"
	if expiresAt != nil {
		until = "until " + formatTime(*expiresAt)
	}
	d.notify(s.TargetID, fmt.Sprintf("You have been banned %s: %s", until, reason), "")

	return Response{Text: fmt.Sprintf("User %d banned %s.", s.TargetID, until), Menu: mainMenu()}
}

func (d *Dispatcher) submitDelete(senderID int64, s conversation.AwaitingDeleteReason, body string) Response {
	reason := text.Normalize(body)
	if text.Length(reason) == 0 {
		return Response{Text: "Empty reason, deletion cancelled.", Menu: mainMenu()}
	}

	authorID, err := services.TopicAuthor(s.TopicID)
	if err != nil {
		return d.failure(err)
	}
	if err := services.DeleteTopicModerated(s.TopicID, senderID, s.ReportID); err != nil {
		return d.failure(err)
	}

	d.notify(authorID, "Your topic was removed by a moderator: "+reason, "")
	d.cache.Delete(popularFeedKey)

	return Response{Text: fmt.Sprintf("Topic %d deleted.", s.TopicID), Menu: mainMenu()}
}

// ---- menu actions ----

func (d *Dispatcher) start(senderID int64) Response {
	username, err := services.EnsureUsername(senderID)
	if err != nil {
		return d.failure(err)
	}
	return Response{
		Text: fmt.Sprintf("Hi, %s!\nWrite a thought and it becomes a topic, or pick something below.", username),
		Menu: mainMenu(),
	}
}

func (d *Dispatcher) feed(offset int) Response {
	if offset < 0 {
		offset = 0
	}
	topics, err := services.LatestTopics(offset, services.PageSize)
	if err != nil {
		return d.failure(err)
	}
	if len(topics) == 0 {
		return Response{Text: "Nothing here yet.", Menu: mainMenu()}
	}

	lines := make([]string, 0, len(topics))
	menu := make([]Button, 0, len(topics)+2)
	for _, t := range topics {
		lines = append(lines, formatTopicLine(t))
		menu = append(menu, Button{
			Label: fmt.Sprintf("Open #%d", t.ID),
			Token: fmt.Sprintf("view_topic:%d:0", t.ID),
		})
	}
	menu = append(menu, feedNav(offset, len(topics) == services.PageSize)...)

	return Response{Text: strings.Join(lines, "\n\n"), Menu: menu}
}

func (d *Dispatcher) random(senderID int64) Response {
	id, err := services.RandomTopic()
	if err != nil {
		return d.failure(err)
	}
	if id == 0 {
		return Response{Text: "No topics yet.", Menu: mainMenu()}
	}
	return d.viewTopic(senderID, id, 0)
}

func (d *Dispatcher) popular() Response {
	var topics []services.TopicView
	if cached := d.cache.Get(popularFeedKey); cached != nil {
		topics = cached.([]services.TopicView)
	} else {
		var err error
		topics, err = services.PopularTopics(services.PageSize)
		if err != nil {
			return d.failure(err)
		}
		d.cache.Set(popularFeedKey, topics, popularFeedTTL)
	}

	if len(topics) == 0 {
		return Response{Text: "No topics yet.", Menu: mainMenu()}
	}

	lines := make([]string, 0, len(topics))
	menu := make([]Button, 0, len(topics))
	for _, t := range topics {
		lines = append(lines, fmt.Sprintf("%s · %d replies", formatTopicLine(t), t.ReplyCount))
		menu = append(menu, Button{
			Label: fmt.Sprintf("Open #%d", t.ID),
			Token: fmt.Sprintf("view_topic:%d:0", t.ID),
		})
	}
	return Response{Text: strings.Join(lines, "\n\n"), Menu: menu}
}

func (d *Dispatcher) viewTopic(senderID int64, topicID uint, page int) Response {
	if page < 0 {
		page = 0
	}
	view, err := services.GetTopic(topicID)
	if err != nil {
		return d.failure(err)
	}

	offset := page * services.PageSize
	replies, err := services.RepliesPage(topicID, offset, services.PageSize)
	if err != nil {
		return d.failure(err)
	}

	parts := []string{formatTopic(view)}
	for _, r := range replies {
		parts = append(parts, formatReply(r))
	}

	menu := topicMenu(topicID, view.UserID == senderID)
	menu = append(menu, repliesNav(topicID, offset, offset+len(replies) < view.ReplyCount)...)

	return Response{Text: strings.Join(parts, "\n\n"), Menu: menu}
}

func (d *Dispatcher) replies(topicID uint, offset int) Response {
	if offset < 0 {
		offset = 0
	}
	view, err := services.GetTopic(topicID)
	if err != nil {
		return d.failure(err)
	}

	replies, err := services.RepliesPage(topicID, offset, services.PageSize)
	if err != nil {
		return d.failure(err)
	}
	if len(replies) == 0 {
		return Response{Text: "No replies here.", Menu: topicMenu(topicID, false)}
	}

	lines := make([]string, 0, len(replies))
	for _, r := range replies {
		lines = append(lines, formatReply(r))
	}
	menu := repliesNav(topicID, offset, offset+len(replies) < view.ReplyCount)

	return Response{Text: strings.Join(lines, "\n\n"), Menu: menu}
}

func (d *Dispatcher) promptReply(senderID int64, topicID uint) Response {
	if _, err := services.GetTopic(topicID); err != nil {
		return d.failure(err)
	}
	d.tracker.Set(senderID, conversation.AwaitingReply{TopicID: topicID})
	return Response{Text: "Write your reply."}
}

func (d *Dispatcher) promptReport(senderID int64, topicID uint) Response {
	if _, err := services.GetTopic(topicID); err != nil {
		return d.failure(err)
	}
	d.tracker.Set(senderID, conversation.AwaitingReportReason{TopicID: topicID})
	return Response{Text: "What is wrong with this topic? Describe the problem."}
}

func (d *Dispatcher) profile(senderID int64) Response {
	view, err := services.Profile(senderID)
	if err != nil {
		return d.failure(err)
	}
	remaining, _, err := services.RemainingToday(senderID)
	if err != nil {
		return d.failure(err)
	}

	return Response{
		Text: fmt.Sprintf(
			"Profile\n\nName: %s\nRank: %s\n\nTopics: %d\nReplies written: %d\nReplies received: %d\nTopics left today: %d",
			view.Username, view.Rank.Name,
			view.Stats.TopicsCreated, view.Stats.RepliesWritten, view.Stats.RepliesReceived,
			remaining),
		Menu: profileMenu(),
	}
}

func (d *Dispatcher) toggleNotify(senderID int64) Response {
	enabled, err := services.ToggleNotifications(senderID)
	if err != nil {
		return d.failure(err)
	}
	if enabled {
		return Response{Text: "Reply notifications are on.", Menu: profileMenu()}
	}
	return Response{Text: "Reply notifications are off.", Menu: profileMenu()}
}

func (d *Dispatcher) closeTopic(senderID int64, topicID uint) Response {
	if err := services.CloseTopic(topicID, senderID); err != nil {
		return d.failure(err)
	}
	d.cache.Delete(popularFeedKey)
	return Response{Text: fmt.Sprintf("Topic %d closed.", topicID), Menu: mainMenu()}
}

func (d *Dispatcher) deleteOwnTopic(senderID int64, topicID uint) Response {
	if err := services.DeleteTopic(topicID, senderID, false); err != nil {
		return d.failure(err)
	}
	d.cache.Delete(popularFeedKey)
	return Response{Text: fmt.Sprintf("Topic %d deleted.", topicID), Menu: mainMenu()}
}

// ---- admin actions ----

func (d *Dispatcher) adminReports() Response {
	reports, err := services.PendingReports()
	if err != nil {
		return d.failure(err)
	}
	if len(reports) == 0 {
		return Response{Text: "No pending reports.", Menu: mainMenu()}
	}

	// One card per response keeps each report actionable; the rest queue up.
	r := reports[0]
	txt := fmt.Sprintf("Report #%d (%d pending)\nTopic #%d by %s\nReason: %s\n\n%s",
		r.ID, len(reports), r.TopicID, r.Username, r.Reason,
		text.RenderChatHTML(r.TopicText))
	return Response{Text: txt, Menu: reportCardMenu(r.TopicID, r.ID)}
}

func (d *Dispatcher) adminBans() Response {
	bans, err := services.ActiveBans()
	if err != nil {
		return d.failure(err)
	}
	if len(bans) == 0 {
		return Response{Text: "No active bans.", Menu: mainMenu()}
	}

	lines := make([]string, 0, len(bans))
	menu := make([]Button, 0, len(bans))
	for _, b := range bans {
		until := "permanent"
		if b.ExpiresAt != nil {
			until = "until " + formatTime(*b.ExpiresAt)
		}
		lines = append(lines, fmt.Sprintf("%s (%d)\nReason: %s\n%s", b.Username, b.UserID, b.Reason, until))
		menu = append(menu, Button{
			Label: "Unban " + b.Username,
			Token: fmt.Sprintf("admin_unban:%d", b.UserID),
		})
	}
	return Response{Text: strings.Join(lines, "\n\n"), Menu: menu}
}

func (d *Dispatcher) promptAdminDelete(senderID int64, topicID, reportID uint) Response {
	if _, err := services.TopicAuthor(topicID); err != nil {
		return d.failure(err)
	}
	var rid *uint
	if reportID != 0 {
		rid = &reportID
	}
	d.tracker.Set(senderID, conversation.AwaitingDeleteReason{TopicID: topicID, ReportID: rid})
	return Response{Text: fmt.Sprintf("Deleting topic %d. State the reason; the author will see it.", topicID)}
}

func (d *Dispatcher) promptAdminBan(senderID int64, topicID, reportID uint, days int) Response {
	authorID, err := services.TopicAuthor(topicID)
	if err != nil {
		return d.failure(err)
	}
	var rid *uint
	if reportID != 0 {
		rid = &reportID
	}
	d.tracker.Set(senderID, conversation.AwaitingBanReason{TargetID: authorID, ReportID: rid, Days: days})

	span := "permanently"
	if days > 0 {
		span = fmt.Sprintf("for %d days", days)
	}
	return Response{Text: fmt.Sprintf("Banning user %d %s. State the reason.", authorID, span)}
}

func (d *Dispatcher) adminReject(senderID int64, reportID uint) Response {
	if err := services.RejectReport(reportID, senderID); err != nil {
		return d.failure(err)
	}
	return Response{Text: fmt.Sprintf("Report %d rejected.", reportID), Menu: mainMenu()}
}

func (d *Dispatcher) adminUnban(userID int64) Response {
	if err := services.Unban(userID); err != nil {
		return d.failure(err)
	}
	return Response{Text: fmt.Sprintf("User %d unbanned.", userID), Menu: mainMenu()}
}

// ---- failure rendering ----

// failure maps a rules-engine error onto user-facing text. Store failures
// are logged and replaced by a generic line; the conversation state was
// already consumed, so a broken flow cannot loop.
func (d *Dispatcher) failure(err error) Response {
	switch {
	case errors.Is(err, services.ErrBanned):
		return Response{Text: "You are banned from posting."}
	case errors.Is(err, services.ErrDailyLimit):
		return Response{Text: fmt.Sprintf("Daily topic limit reached (%d per day). Come back tomorrow.", services.DailyTopicLimit)}
	case errors.Is(err, services.ErrTopicNotFound):
		return Response{Text: "Topic not found.", Menu: mainMenu()}
	case errors.Is(err, services.ErrTopicClosed):
		return Response{Text: "This topic is closed.", Menu: mainMenu()}
	case errors.Is(err, services.ErrNotAuthor):
		return Response{Text: "Only the author can do that."}
	case errors.Is(err, services.ErrDuplicateReport):
		return Response{Text: "You already reported this topic; it is waiting for a moderator."}
	case errors.Is(err, services.ErrUsernameTaken):
		return Response{Text: "That name is already taken."}
	case errors.Is(err, services.ErrReportNotFound):
		return Response{Text: "Report not found.", Menu: mainMenu()}
	case errors.Is(err, services.ErrReportHandled):
		return Response{Text: "This report was already handled.", Menu: mainMenu()}
	}

	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation:
		return Response{Text: err.Error()}
	case apperrors.CodePermission:
		return Response{Text: "Access denied."}
	case apperrors.CodeNotFound:
		return Response{Text: "Not found.", Menu: mainMenu()}
	case apperrors.CodeConflict:
		return Response{Text: err.Error()}
	default:
		log.Printf("store failure: %v", err)
		return Response{Text: "Something went wrong. Please try again later."}
	}
}
