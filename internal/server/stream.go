package server

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"
)

// streamInterval paces the MJPEG stream (~15 FPS).
const streamInterval = 66 * time.Millisecond

// FrameBuffer keeps the last displayed frame as JPEG. It is a
// capture.FrameSink and only encodes while someone is watching.
type FrameBuffer struct {
	mu       sync.RWMutex
	jpeg     []byte
	seq      uint64
	watchers atomic.Int32
}

// NewFrameBuffer creates an empty frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Show stores frame as JPEG when there are watchers. It never asks to quit.
func (b *FrameBuffer) Show(frame gocv.Mat) bool {
	if b.watchers.Load() == 0 || frame.Empty() {
		return false
	}

	buf, err := gocv.IMEncode(".jpg", frame)
	if err != nil {
		return false
	}
	data := append([]byte(nil), buf.GetBytes()...)
	buf.Close()

	b.mu.Lock()
	b.jpeg = data
	b.seq++
	b.mu.Unlock()

	return false
}

// Latest returns the newest JPEG and its sequence number. seq is 0 until
// the first frame arrives.
func (b *FrameBuffer) Latest() (jpeg []byte, seq uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}

// Watch registers a viewer; the returned func unregisters it.
func (b *FrameBuffer) Watch() func() {
	b.watchers.Add(1)
	var once sync.Once
	return func() {
		once.Do(func() { b.watchers.Add(-1) })
	}
}

// StreamHandler serves MJPEG frames from a FrameBuffer.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a new StreamHandler reading from frames.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	unwatch := h.frames.Watch()
	defer unwatch()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var sent uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq := h.frames.Latest()
		if seq == sent || len(data) == 0 {
			continue
		}
		sent = seq

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
