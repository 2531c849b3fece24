package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/renteasy/messenger/internal/types"
)

// EncodeAttachment reads a file into a self-contained data-URL blob.
// The read runs off the calling goroutine so it can be abandoned via the
// context; a send is only finalized once encoding has completed.
func EncodeAttachment(ctx context.Context, path string) (types.Attachment, error) {
	type result struct {
		att types.Attachment
		err error
	}
	ch := make(chan result, 1)

	go func() {
		data, err := os.ReadFile(path)
		if err != nil {
			ch <- result{err: fmt.Errorf("read attachment: %w", err)}
			return
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		ch <- result{att: types.Attachment("data:" + contentType(path, data) + ";base64," + encoded)}
	}()

	select {
	case r := <-ch:
		return r.att, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func contentType(path string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
