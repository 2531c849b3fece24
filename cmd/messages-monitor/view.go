package main

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/renteasy/messenger/internal/client"
	"github.com/renteasy/messenger/internal/monitor"
)

type monitorView struct {
	mu         sync.Mutex
	out        io.Writer
	items      []monitor.Item
	filterMode monitor.FilterMode
	searchText string
}

func newMonitorView(out io.Writer) *monitorView {
	return &monitorView{out: out, filterMode: monitor.FilterAll}
}

func (v *monitorView) idAt(index string) (string, bool) {
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

func (v *monitorView) mode() monitor.FilterMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filterMode
}

func (v *monitorView) setMode(m monitor.FilterMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filterMode = m
}

func (v *monitorView) query() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.searchText
}

func (v *monitorView) setQuery(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.searchText = q
}

func (v *monitorView) RenderList(items []monitor.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = items
	if len(items) == 0 {
		fmt.Fprintln(v.out, "\nNo conversations.")
		return
	}

	fmt.Fprintln(v.out)
	for i, item := range items {
		online := " "
		if item.AnyOnline {
			online = "●"
		}
		badge := ""
		if item.Unread > 0 {
			badge = fmt.Sprintf(" [%d]", item.Unread)
		}
		fmt.Fprintf(v.out, "%s %d. (%s) %s%s\n      %s  %s\n", online, i+1, item.Initials, item.Title, badge, item.Preview, item.Time)
	}
}

func (v *monitorView) RenderThread(thread *client.ThreadView) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if thread == nil {
		fmt.Fprintln(v.out, "Select a conversation to view messages.")
		return
	}

	fmt.Fprintf(v.out, "\n== %s ==\n", thread.Header)
	for _, msg := range thread.Messages {
		line := fmt.Sprintf("[%s] %s", msg.SenderId, msg.Text)
		if msg.AttachmentKind != "" {
			line += fmt.Sprintf(" <%s attachment>", msg.AttachmentKind)
		}
		line += fmt.Sprintf(" (%s)", msg.Age)
		fmt.Fprintln(v.out, line)
	}
}

func (v *monitorView) Notice(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, "! "+text)
}
