package services

import (
	"anonboard/pkg/apperrors"
)

// Validation bounds (rune counts, applied after normalization)
const (
	TopicMinLen    = 2
	TopicMaxLen    = 2000
	ReplyMinLen    = 2
	ReplyMaxLen    = 1000
	UsernameMinLen = 3
	UsernameMaxLen = 12

	PageSize = 5
)

// DailyTopicLimit caps topics per user per UTC day. Overridable at startup
// via the DAILY_TOPIC_LIMIT env var.
var DailyTopicLimit = 5

// Sentinel failures the dispatch layer turns into user-facing text.
var (
	ErrBanned          = apperrors.Permission("user is banned")
	ErrDailyLimit      = apperrors.Permission("daily topic limit reached")
	ErrTopicTooShort   = apperrors.Validation("topic text is too short")
	ErrTopicTooLong    = apperrors.Validation("topic text is too long")
	ErrReplyTooShort   = apperrors.Validation("reply text is too short")
	ErrReplyTooLong    = apperrors.Validation("reply text is too long")
	ErrTopicNotFound   = apperrors.NotFound("topic not found")
	ErrTopicClosed     = apperrors.NotFound("topic is closed")
	ErrNotAuthor       = apperrors.Permission("not the topic author")
	ErrDuplicateReport = apperrors.Conflict("a pending report for this topic already exists")
	ErrReportNotFound  = apperrors.NotFound("report not found")
	ErrReportHandled   = apperrors.Conflict("report already handled")
	ErrUsernameTaken   = apperrors.Conflict("username already taken")
)
