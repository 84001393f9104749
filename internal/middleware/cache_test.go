package middleware

import (
	"bytes"
	"net/http"
	"testing"
)

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Add("X-Custom", "a")
	hdr.Add("X-Custom", "b")
	body := []byte(`{"items":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload failed: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decodePayload rejected a valid payload")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Fatalf("content type lost: %v", gotHdr)
	}
	if len(gotHdr.Values("X-Custom")) != 2 {
		t.Fatalf("multi-value header lost: %v", gotHdr)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body = %q, want %q", gotBody, body)
	}
}

func TestDecodePayloadRejectsShortInput(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 7)} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Fatalf("decodePayload accepted %d-byte input", len(bs))
		}
	}
}

func TestDecodePayloadRejectsTruncatedHeader(t *testing.T) {
	payload, err := encodePayload(http.StatusOK, http.Header{"A": {"b"}}, []byte("x"))
	if err != nil {
		t.Fatalf("encodePayload failed: %v", err)
	}
	if _, _, _, ok := decodePayload(payload[:10]); ok {
		t.Fatal("decodePayload accepted a truncated payload")
	}
}
