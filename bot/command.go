package bot

import (
	"regexp"
	"strings"

	"github.com/Brawl345/invitebot/plugin"
)

var commandRegex = regexp.MustCompile(`(?is)^/([a-z0-9_]+)(?:@([a-z0-9_]+))?(?:\s+(.*))?$`)

// ParseCommand turns "/command@bot arg1 arg2" into an event. Commands addressed
// to another bot are not ours and report false.
func ParseCommand(text, botUsername string, senderID int64) (plugin.Event, bool) {
	matches := commandRegex.FindStringSubmatch(strings.TrimSpace(text))
	if matches == nil {
		return plugin.Event{}, false
	}

	if mention := matches[2]; mention != "" && !strings.EqualFold(mention, botUsername) {
		return plugin.Event{}, false
	}

	return plugin.Event{
		SenderID: senderID,
		Command:  strings.ToLower(matches[1]),
		Args:     strings.Fields(matches[3]),
	}, true
}
