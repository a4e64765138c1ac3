package services

import "errors"

// Sentinel errors returned by services. Handlers map these onto the
// HTTP error responses, everything else is treated as internal.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrTriviaNotFound    = errors.New("trivia not found")
	ErrEntryNotFound     = errors.New("watchlist entry not found")
	ErrNoActiveRooms     = errors.New("no active rooms")
	ErrInviteCodeMissing = errors.New("room has no invite code")

	ErrBannedFromRoom    = errors.New("user is banned from this room")
	ErrRoomFull          = errors.New("room is at capacity")
	ErrNotParticipant    = errors.New("user is not a participant")
	ErrNotCreator        = errors.New("only the room creator may do this")
	ErrPrivateRoom       = errors.New("room is private")
	ErrInvalidInviteCode = errors.New("invite code does not match")
	ErrSelfBan           = errors.New("creator cannot ban themselves")
	ErrChatDisabled      = errors.New("chat is disabled in this room")
	ErrWatchlistDisabled = errors.New("watchlist is disabled in this room")
	ErrTriviaDisabled    = errors.New("trivia is disabled in this room")

	ErrRoomNameTaken  = errors.New("an active room with this name already exists")
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrDuplicateEntry = errors.New("movie is already on the watchlist")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTriviaNeedsOptions = errors.New("trivia requires exactly 4 options")
	ErrBadCursor          = errors.New("invalid pagination cursor")
	ErrInvalidInput       = errors.New("invalid input")

	ErrMetadataUnavailable = errors.New("movie metadata service unavailable")
)
