package main

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/renteasy/messenger/internal/client"
)

// termView renders the messaging session as plain text. List entries are
// numbered so the repl can select by index.
type termView struct {
	mu     sync.Mutex
	out    io.Writer
	items  []client.ListItem
	typing bool
}

func newTermView(out io.Writer) *termView {
	return &termView{out: out}
}

func (v *termView) idAt(index string) (string, bool) {
	n, err := strconv.Atoi(index)
	if err != nil {
		return "", false
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 || n > len(v.items) {
		return "", false
	}
	return v.items[n-1].Id, true
}

func (v *termView) RenderConversationList(items []client.ListItem, summary string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = items
	fmt.Fprintf(v.out, "\n── %s ──\n", summary)
	for i, item := range items {
		marker := " "
		if item.Active {
			marker = ">"
		}
		badge := ""
		if item.Unread > 0 {
			badge = fmt.Sprintf(" [%d]", item.Unread)
		}
		fmt.Fprintf(v.out, "%s %d. %s — %s%s\n", marker, i+1, item.Title, item.Subtitle, badge)
	}
}

func (v *termView) RenderThread(thread *client.ThreadView) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if thread == nil {
		fmt.Fprintln(v.out, "Select a conversation")
		return
	}

	fmt.Fprintf(v.out, "\n== %s ==\n", thread.Header)
	if thread.PresenceLine != "" {
		fmt.Fprintln(v.out, thread.PresenceLine)
	}
	for _, msg := range thread.Messages {
		who := "them"
		if msg.Mine {
			who = "me"
		}
		line := fmt.Sprintf("[%s] %s", who, msg.Text)
		if msg.AttachmentKind != "" {
			line += fmt.Sprintf(" <%s attachment>", msg.AttachmentKind)
		}
		line += fmt.Sprintf(" (%s)%s", msg.Age, msg.Receipt)
		if msg.UnreadHighlight {
			line += " *"
		}
		fmt.Fprintln(v.out, line)
	}
	if !thread.CanSend {
		fmt.Fprintln(v.out, "(view-only)")
	}
}

func (v *termView) RenderUnreadBadge(total int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if total > 0 {
		fmt.Fprintf(v.out, "Unread: %d\n", total)
	}
}

func (v *termView) Notice(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, "! "+text)
}

func (v *termView) SetTyping(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if visible && !v.typing {
		fmt.Fprintln(v.out, "typing…")
	}
	v.typing = visible
}
