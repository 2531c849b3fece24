package monitor

import (
	"fmt"
	"strings"

	"github.com/renteasy/messenger/internal/types"
)

// Initials picks the first letters of up to two participant names for
// the list avatar.
func Initials(conv types.Conversation) string {
	if len(conv.Participants) == 0 {
		return "?"
	}

	var b strings.Builder
	for i, p := range conv.Participants {
		if i == 2 {
			break
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			b.WriteString("?")
			continue
		}
		b.WriteString(strings.ToUpper(string([]rune(name)[0])))
	}
	return b.String()
}

// StringColor derives a stable color from a string so the same
// conversation always gets the same avatar tint.
func StringColor(s string) string {
	hash := int32(0)
	for _, r := range s {
		hash = r + ((hash << 5) - hash)
	}
	return fmt.Sprintf("#%06X", uint32(hash)&0x00FFFFFF)
}
