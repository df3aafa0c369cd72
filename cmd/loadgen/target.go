package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/IvanBrykalov/kvcache/cacheaside"
)

// target executes one operation and reports whether it succeeded.
type target interface {
	do(ctx context.Context, op opKind, key, value string) error
}

// httpTarget talks to a running kvcached.
type httpTarget struct {
	base   string
	client *http.Client
}

func newHTTPTarget(base string) *httpTarget {
	return &httpTarget{
		base:   base,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (t *httpTarget) do(ctx context.Context, op opKind, key, value string) error {
	var (
		req *http.Request
		err error
	)
	q := "?key=" + url.QueryEscape(key)
	switch op {
	case opCreate:
		body, _ := json.Marshal(map[string]string{"key": key, "value": value})
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, t.base+"/create", bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	case opDelete:
		req, err = http.NewRequestWithContext(ctx, http.MethodDelete, t.base+"/delete"+q, nil)
	default:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, t.base+"/read"+q, nil)
	}
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// localTarget drives an in-process coordinator, which isolates cache and
// protocol cost from HTTP overhead.
type localTarget struct {
	co *cacheaside.Coordinator[string, string]
}

func (t localTarget) do(ctx context.Context, op opKind, key, value string) error {
	switch op {
	case opCreate:
		return t.co.Write(ctx, key, value)
	case opDelete:
		return t.co.Delete(ctx, key)
	default:
		_, err := t.co.Read(ctx, key)
		return err
	}
}
