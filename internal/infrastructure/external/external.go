// Package external implements the upstream integration adapters. Every
// adapter has a live code path and a deterministic mock code path with the
// same output shape. Adapters constructed in mock mode never touch the
// network; adapters constructed in live mode fall back to the mock payload
// on any upstream failure so callers always receive a usable result.
package external

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"time"
)

const userAgent = "disasterhub/1.0"

// errEmptyUpstream marks a well-formed upstream response carrying no usable
// result. It triggers the same mock fallback as a transport failure.
var errEmptyUpstream = errors.New("upstream returned no usable result")

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// hash32 derives a stable seed from adapter input so mock payloads are
// deterministic for a given input.
func hash32(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
