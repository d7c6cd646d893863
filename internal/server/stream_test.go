package server

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestFrameBuffer_OnlyEncodesWhenWatched(t *testing.T) {
	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	b := NewFrameBuffer()

	if b.Show(frame) {
		t.Error("FrameBuffer should never ask to quit")
	}
	if _, seq := b.Latest(); seq != 0 {
		t.Errorf("expected no frame without watchers, got seq %d", seq)
	}

	unwatch := b.Watch()
	b.Show(frame)
	data, seq := b.Latest()
	if seq != 1 {
		t.Errorf("expected seq 1, got %d", seq)
	}
	// JPEG SOI marker
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("expected JPEG data")
	}

	unwatch()
	unwatch() // idempotent
	b.Show(frame)
	if _, seq := b.Latest(); seq != 1 {
		t.Errorf("expected no new frame after unwatch, got seq %d", seq)
	}
}

func TestStreamHandler_WritesMJPEG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping streaming test in short mode")
	}

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	frames := NewFrameBuffer()
	ts := httptest.NewServer(NewStreamHandler(frames))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// Feed frames until the handler has registered as a watcher and sent one.
	fed := make(chan struct{})
	defer func() {
		cancel()
		<-fed
	}()
	go func() {
		defer close(fed)
		for ctx.Err() == nil {
			frames.Show(frame)
			time.Sleep(20 * time.Millisecond)
		}
	}()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	if err != nil {
		t.Fatalf("read error = %v", err)
	}
	if line != "--frame\r\n" {
		t.Errorf("expected boundary line, got %q", line)
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(NewFrameBuffer())

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
