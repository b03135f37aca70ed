// Package client is a typed client for the marketplace API.
//
// Reads are cached per collection. Every mutation drops the collections it
// affects and the next read refetches them in full; cached data is never
// patched in place. Watch applies the same invalidation for changes made
// by other clients.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Cached collections.
const (
	collTasks        = "tasks"
	collSkills       = "skills"
	collProviders    = "providers"
	collUsers        = "users"
	collTransactions = "transactions"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	http    *resty.Client
	baseURL string
	token   string

	mu    sync.Mutex
	cache map[string]map[string][]byte // collection -> request key -> body
	gens  map[string]uint64            // bumped per collection on invalidation
	epoch uint64                       // bumped when everything is invalidated
}

// cacheGen identifies the state of a collection's cache between invalidations.
type cacheGen struct {
	epoch, gen uint64
}

type Option func(*Client)

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
		c.http.SetAuthToken(token)
	}
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(20 * time.Second),
		baseURL: baseURL,
		cache:   make(map[string]map[string][]byte),
		gens:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invalidate drops cached reads for the named collections, or all of them
// when none are named.
func (c *Client) Invalidate(collections ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(collections) == 0 {
		c.cache = make(map[string]map[string][]byte)
		c.epoch++
		return
	}
	for _, coll := range collections {
		delete(c.cache, coll)
		c.gens[coll]++
	}
}

func (c *Client) generation(coll string) cacheGen {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cacheGen{epoch: c.epoch, gen: c.gens[coll]}
}

func (c *Client) cached(coll, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	body, ok := c.cache[coll][key]
	return body, ok
}

// store caches body unless coll was invalidated after g was taken, in which
// case body may predate a mutation and is discarded.
func (c *Client) store(coll, key string, body []byte, g cacheGen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if g != (cacheGen{epoch: c.epoch, gen: c.gens[coll]}) {
		return
	}
	if c.cache[coll] == nil {
		c.cache[coll] = make(map[string][]byte)
	}
	c.cache[coll][key] = body
}

// read serves a GET from the collection cache, fetching on a miss.
func (c *Client) read(ctx context.Context, coll, path string, query url.Values, out any) error {
	key := path + "?" + query.Encode()
	if body, ok := c.cached(coll, key); ok {
		return json.Unmarshal(body, out)
	}
	g := c.generation(coll)
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	c.store(coll, key, body, g)
	return nil
}

// write sends a mutation and invalidates the affected collections whether or
// not it succeeded, since a failed call may still have been applied.
func (c *Client) write(ctx context.Context, method, path string, body, out any, affects ...string) error {
	defer c.Invalidate(affects...)
	raw, err := c.do(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := gjson.GetBytes(resp.Body(), "error").String()
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return resp.Body(), nil
}

func decodeInto(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
