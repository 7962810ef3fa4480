package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/vesperants/najir-agent/pkg/domain/types"
)

const (
	// MaxTurnLog is the number of turns kept per conversation. Older turns
	// are dropped first.
	MaxTurnLog = 200

	// titleLength is the number of runes taken from the first user message
	// when a conversation has no real title yet.
	titleLength = 30

	// DefaultConversationID receives legacy user-level session handles when
	// the upgrading call does not know which conversation they belong to.
	DefaultConversationID types.ConversationID = "default"
)

// placeholder titles assigned by older frontends
var placeholderTitles = []string{"Untitled", "New Chat"}

// TurnRecord is one user or bot turn in a conversation log
type TurnRecord struct {
	Sender     types.Sender `json:"sender" firestore:"sender"`
	Text       string       `json:"text" firestore:"text"`
	Structured bool         `json:"structured,omitempty" firestore:"structured,omitempty"`
	Timestamp  time.Time    `json:"ts" firestore:"ts"`
}

// SessionEntry holds the cached backend session handle and rolling
// transcript for one (user, conversation) pair.
type SessionEntry struct {
	SessionID types.SessionID `json:"sid" firestore:"sid"`
	Title     string          `json:"title,omitempty" firestore:"title,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
	Log       []TurnRecord    `json:"log,omitempty" firestore:"log,omitempty"`
}

// AppendTurn adds a record to the log, trims it to the most recent
// MaxTurnLog entries, and bumps UpdatedAt.
func (x *SessionEntry) AppendTurn(rec TurnRecord) {
	x.Log = append(x.Log, rec)
	if len(x.Log) > MaxTurnLog {
		x.Log = x.Log[len(x.Log)-MaxTurnLog:]
	}
	x.UpdatedAt = rec.Timestamp
}

// HasPlaceholderTitle reports whether the entry still needs a title.
func (x *SessionEntry) HasPlaceholderTitle() bool {
	if x.Title == "" {
		return true
	}
	for _, p := range placeholderTitles {
		if strings.HasPrefix(x.Title, p) {
			return true
		}
	}
	return false
}

// EnsureTitle assigns a title from the first characters of msg when the
// entry has none yet. Counted in runes so Devanagari text is not cut
// mid-character.
func (x *SessionEntry) EnsureTitle(msg string) {
	if !x.HasPlaceholderTitle() {
		return
	}
	runes := []rune(msg)
	if len(runes) > titleLength {
		runes = runes[:titleLength]
	}
	if title := strings.TrimSpace(string(runes)); title != "" {
		x.Title = title
	}
}

// Clone returns a deep copy of the entry
func (x *SessionEntry) Clone() *SessionEntry {
	if x == nil {
		return nil
	}
	clone := *x
	clone.Log = make([]TurnRecord, len(x.Log))
	copy(clone.Log, x.Log)
	return &clone
}

// SessionFile is the canonical in-memory shape of the session cache:
// userID → conversationID → SessionEntry.
type SessionFile map[types.UserID]map[types.ConversationID]*SessionEntry

// Get returns the entry for the pair, or nil when absent.
func (f SessionFile) Get(uid types.UserID, cid types.ConversationID) *SessionEntry {
	return f[uid][cid]
}

// Put stores the entry for the pair, creating the user map as needed.
func (f SessionFile) Put(uid types.UserID, cid types.ConversationID, entry *SessionEntry) {
	user, ok := f[uid]
	if !ok {
		user = make(map[types.ConversationID]*SessionEntry)
		f[uid] = user
	}
	user[cid] = entry
}

// DecodeSessionFile parses the raw session cache document into the
// canonical shape, upgrading legacy layouts along the way:
//
//   - a bare session-id string at the user level becomes
//     {accessConv: {sid: ...}} for the accessing user (older files stored
//     one session per user; the conversation being accessed inherits it),
//     or {default: {...}} for any other user;
//   - a bare string at the conversation level becomes {sid: ...}.
//
// The upgrade never discards a session handle and is idempotent: canonical
// input decodes with changed=false. Callers that hold no access context may
// pass zero values.
func DecodeSessionFile(data []byte, accessUser types.UserID, accessConv types.ConversationID) (SessionFile, bool, error) {
	file := make(SessionFile)
	if len(data) == 0 {
		return file, false, nil
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, false, goerr.Wrap(err, "session cache file is not a JSON object")
	}

	changed := false
	for rawUID, rawUser := range root {
		uid := types.UserID(rawUID)

		// user-level legacy: bare session-id string
		var sid string
		if err := json.Unmarshal(rawUser, &sid); err == nil {
			conv := DefaultConversationID
			if uid == accessUser && accessConv != "" {
				conv = accessConv
			}
			file[uid] = map[types.ConversationID]*SessionEntry{
				conv: {SessionID: types.SessionID(sid)},
			}
			changed = true
			continue
		}

		var rawConvs map[string]json.RawMessage
		if err := json.Unmarshal(rawUser, &rawConvs); err != nil {
			return nil, false, goerr.Wrap(err, "invalid user record in session cache",
				goerr.V("user_id", rawUID),
			)
		}

		convs := make(map[types.ConversationID]*SessionEntry, len(rawConvs))
		for rawCID, rawEntry := range rawConvs {
			cid := types.ConversationID(rawCID)

			// conversation-level legacy: bare session-id string
			var entrySID string
			if err := json.Unmarshal(rawEntry, &entrySID); err == nil {
				convs[cid] = &SessionEntry{SessionID: types.SessionID(entrySID)}
				changed = true
				continue
			}

			var entry SessionEntry
			if err := json.Unmarshal(rawEntry, &entry); err != nil {
				return nil, false, goerr.Wrap(err, "invalid conversation record in session cache",
					goerr.V("user_id", rawUID),
					goerr.V("conversation_id", rawCID),
				)
			}
			convs[cid] = &entry
		}
		file[uid] = convs
	}

	return file, changed, nil
}
