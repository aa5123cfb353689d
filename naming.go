package slacknet

import "github.com/brb3/slacknet/internal/naming"

// NamingStrategy maps Go names to wire names. It is applied to struct fields
// without an explicit json tag name and to enum value names.
type NamingStrategy interface {
	Name(goName string) string
}

// SnakeCaseNaming is the naming strategy used by the Slack Web API:
// "TeamID" travels as "team_id".
type SnakeCaseNaming struct{}

func (SnakeCaseNaming) Name(goName string) string { return naming.Snake(goName) }

// Enum is implemented by integer enumerations that travel on the wire by
// name instead of by number. EnumNames returns the Go name of every value,
// indexed by value; the naming strategy is applied to each name.
type Enum interface {
	EnumNames() []string
}
