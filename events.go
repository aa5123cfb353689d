package slacknet

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Event is a payload delivered by the Events API. The concrete type is
// picked from the "type" and "subtype" fields; payloads of unknown types
// decode into *UnknownEvent.
type Event interface {
	EventType() string
}

// EventBase holds the fields every event carries.
type EventBase struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype,omitempty"`
	EventTs string `json:"event_ts,omitempty"`
}

func (e EventBase) EventType() string {
	if e.Subtype == "" {
		return e.Type
	}
	return e.Type + "." + e.Subtype
}

// UnknownEvent is used for events this package has no type for. Raw keeps
// the original payload; the base fields are filled from whatever values it
// carries, so a malformed "type" never fails the enclosing response.
type UnknownEvent struct {
	EventBase
	Raw json.RawMessage
}

func (e *UnknownEvent) UnmarshalJSON(data []byte) error {
	e.Raw = append(e.Raw[:0], data...)

	r := gjson.ParseBytes(data)
	e.EventBase = EventBase{
		Type:    scalarString(r.Get("type")),
		Subtype: scalarString(r.Get("subtype")),
		EventTs: scalarString(r.Get("event_ts")),
	}

	return nil
}

func scalarString(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return r.String()
	}
	return ""
}

func (e UnknownEvent) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	return json.Marshal(e.EventBase)
}

type MessageEvent struct {
	EventBase
	Channel     string       `json:"channel"`
	ChannelType string       `json:"channel_type,omitempty"`
	User        string       `json:"user,omitempty"`
	Text        string       `json:"text,omitempty"`
	Ts          string       `json:"ts"`
	ThreadTs    string       `json:"thread_ts,omitempty"`
	Team        string       `json:"team,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type BotMessage struct {
	MessageEvent
	BotID    string            `json:"bot_id"`
	Username string            `json:"username,omitempty"`
	Icons    map[string]string `json:"icons,omitempty"`
}

// MessageChanged carries the edited message and, when available, the
// message before the edit. Both are themselves polymorphic.
type MessageChanged struct {
	EventBase
	Channel         string `json:"channel"`
	Ts              string `json:"ts"`
	Hidden          bool   `json:"hidden,omitempty"`
	Message         Event  `json:"message"`
	PreviousMessage Event  `json:"previous_message,omitempty"`
}

type MessageDeleted struct {
	EventBase
	Channel         string `json:"channel"`
	Ts              string `json:"ts"`
	DeletedTs       string `json:"deleted_ts"`
	Hidden          bool   `json:"hidden,omitempty"`
	PreviousMessage Event  `json:"previous_message,omitempty"`
}

type ReactionItem struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Ts      string `json:"ts,omitempty"`
	File    string `json:"file,omitempty"`
}

type ReactionAdded struct {
	EventBase
	User     string       `json:"user"`
	Reaction string       `json:"reaction"`
	ItemUser string       `json:"item_user,omitempty"`
	Item     ReactionItem `json:"item"`
}

type ReactionRemoved struct {
	ReactionAdded
}

type ChannelCreated struct {
	EventBase
	Channel struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Created int64  `json:"created"`
		Creator string `json:"creator"`
	} `json:"channel"`
}

type Attachment struct {
	ID        int    `json:"id,omitempty"`
	Fallback  string `json:"fallback,omitempty"`
	Color     string `json:"color,omitempty"`
	Pretext   string `json:"pretext,omitempty"`
	Title     string `json:"title,omitempty"`
	TitleLink string `json:"title_link,omitempty"`
	Text      string `json:"text,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// EventCallback is the envelope the Events API posts to a request URL.
type EventCallback struct {
	Token       string   `json:"token"`
	TeamID      string   `json:"team_id"`
	APIAppID    string   `json:"api_app_id"`
	Event       Event    `json:"event"`
	Type        string   `json:"type"`
	EventID     string   `json:"event_id"`
	EventTime   int64    `json:"event_time"`
	AuthedUsers []string `json:"authed_users,omitempty"`
}

// DefaultTypeSets returns the polymorphic types declared by this package.
func DefaultTypeSets() []TypeSet {
	return []TypeSet{
		NewTypeSet[Event, UnknownEvent](
			FieldDiscriminator("type", "subtype"),
			VariantFor[MessageEvent]("message"),
			VariantFor[BotMessage]("message.bot_message"),
			VariantFor[MessageChanged]("message.message_changed"),
			VariantFor[MessageDeleted]("message.message_deleted"),
			VariantFor[ReactionAdded]("reaction_added"),
			VariantFor[ReactionRemoved]("reaction_removed"),
			VariantFor[ChannelCreated]("channel_created"),
		),
	}
}
