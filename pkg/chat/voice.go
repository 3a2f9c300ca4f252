package chat

import (
	"regexp"
	"strings"
)

// Reply is a model reply split into the two-voice protocol parts.
// Spoken is what the character says out loud; Hint is the private
// nudge to the player (shown only in master difficulty).
type Reply struct {
	Spoken string
	Hint   string
}

// The model is instructed to answer as
//
//	outer_voice: <in-character speech>
//	inner_voice: <hint for the player>
//
// Markers are matched case-insensitively and accept both ASCII and
// full-width colons, since models answering in Japanese routinely
// produce "outer_voice：".
var (
	outerVoiceRe = regexp.MustCompile(`(?is)outer_voice[:：]\s*(.*?)(?:inner_voice|$)`)
	innerVoiceRe = regexp.MustCompile(`(?is)inner_voice[:：]\s*(.*)`)
)

// ParseReply extracts the spoken and hint segments from a raw model reply.
// If no markers are present the whole reply is treated as spoken text.
// ParseReply never fails: any input yields a defined Reply.
func ParseReply(raw string) Reply {
	reply := Reply{Spoken: strings.TrimSpace(raw)}

	if m := outerVoiceRe.FindStringSubmatch(raw); m != nil {
		reply.Spoken = strings.TrimSpace(m[1])
	}
	if m := innerVoiceRe.FindStringSubmatch(raw); m != nil {
		reply.Hint = strings.TrimSpace(m[1])
	}

	return reply
}

// NewUserTurn records a player message.
func NewUserTurn(text string) Turn {
	return Turn{Role: ChatRoleUser, Text: text, Spoken: text}
}

// NewModelTurn records a model reply together with its parsed halves.
func NewModelTurn(raw string) Turn {
	reply := ParseReply(raw)
	return Turn{Role: ChatRoleModel, Text: raw, Spoken: reply.Spoken, Hint: reply.Hint}
}

// NewSystemTurn records an engine notice shown in the chat log.
func NewSystemTurn(text string) Turn {
	return Turn{Role: ChatRoleSystem, Text: text, Spoken: text}
}
