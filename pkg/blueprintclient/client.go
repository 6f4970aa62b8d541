// Package blueprintclient is a Go client for the blueprints HTTP API.
package blueprintclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const basePath = "/api/v1/blueprints"

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Blueprint struct {
	Author string  `json:"author"`
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("blueprints api: %d %s", e.Status, e.Message)
}

func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsConflict reports a duplicate (author, name); the API answers 403 for it.
func IsConflict(err error) bool { return hasStatus(err, http.StatusForbidden) }

func hasStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Options struct {
	Timeout time.Duration
	// Retries applies to GET requests only.
	Retries   int
	UserAgent string
}

type Client struct {
	Resty *resty.Client
}

func New(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "blueprintclient/1.0"
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryIdempotent)
	return &Client{Resty: rc}
}

func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	switch resp.StatusCode() {
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		return true
	}
	return false
}

func (c *Client) List(ctx context.Context) ([]Blueprint, error) {
	var out []Blueprint
	err := c.do(ctx, http.MethodGet, basePath, nil, &out)
	return out, err
}

func (c *Client) ListByAuthor(ctx context.Context, author string) ([]Blueprint, error) {
	var out []Blueprint
	err := c.do(ctx, http.MethodGet, basePath+"/"+url.PathEscape(author), nil, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, author, name string) (*Blueprint, error) {
	var out Blueprint
	if err := c.do(ctx, http.MethodGet, blueprintPath(author, name), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, bp Blueprint) (*Blueprint, error) {
	if bp.Points == nil {
		bp.Points = []Point{}
	}
	var out Blueprint
	if err := c.do(ctx, http.MethodPost, basePath, bp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddPoint(ctx context.Context, author, name string, p Point) (*Blueprint, error) {
	var out Blueprint
	if err := c.do(ctx, http.MethodPut, blueprintPath(author, name)+"/points", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenderPNG returns the encoded image; size <= 0 uses the server default.
func (c *Client) RenderPNG(ctx context.Context, author, name string, size int) ([]byte, error) {
	req := c.Resty.R().SetContext(ctx).SetHeader("Accept", "image/png")
	if size > 0 {
		req.SetQueryParam("size", strconv.Itoa(size))
	}
	resp, err := req.Get(blueprintPath(author, name) + "/render.png")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resp.Body(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.Resty.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func apiError(resp *resty.Response) error {
	ae := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err == nil && env.Message != "" {
		ae.Message = env.Message
	}
	return ae
}

func blueprintPath(author, name string) string {
	return basePath + "/" + url.PathEscape(author) + "/" + url.PathEscape(name)
}
