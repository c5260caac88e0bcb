// Package provider runs generative models and reduces their outputs to a single result URL.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Output is what a provider call returns. The variants are PlainURL, SyncURLObject,
// AsyncURLObject and ArrayOf.
type Output interface {
	isOutput()
}

type PlainURL string

type SyncURLObject struct {
	URL string
}

// AsyncURLObject defers the URL until Resolve is called, typically a poll of a pending prediction.
type AsyncURLObject struct {
	Resolve func(ctx context.Context) (string, error)
}

type ArrayOf struct {
	Items []Output
}

func (PlainURL) isOutput()       {}
func (SyncURLObject) isOutput()  {}
func (AsyncURLObject) isOutput() {}
func (ArrayOf) isOutput()        {}

var ErrEmptyOutput = errors.New("provider returned no output")

// Normalize reduces any Output to one URL. Arrays yield their first element.
func Normalize(ctx context.Context, out Output) (string, error) {
	var (
		url string
		err error
	)

	switch o := out.(type) {
	case nil:
		return "", ErrEmptyOutput
	case PlainURL:
		url = string(o)
	case SyncURLObject:
		url = o.URL
	case AsyncURLObject:
		if o.Resolve == nil {
			return "", errors.New("async output has no resolver")
		}
		url, err = o.Resolve(ctx)
		if err != nil {
			return "", fmt.Errorf("resolve async output: %w", err)
		}
	case ArrayOf:
		if len(o.Items) == 0 {
			return "", fmt.Errorf("%w: empty array", ErrEmptyOutput)
		}
		return Normalize(ctx, o.Items[0])
	default:
		return "", fmt.Errorf("unrecognized output shape %T", out)
	}

	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("%w: empty url in %T", ErrEmptyOutput, out)
	}
	return url, nil
}

// DecodeOutput builds an Output from provider JSON: a string, an object with "url",
// or an array of either.
func DecodeOutput(raw json.RawMessage) (Output, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, ErrEmptyOutput
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decode output string: %w", err)
		}
		return PlainURL(s), nil

	case '{':
		var obj struct {
			URL *string `json:"url"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decode output object: %w", err)
		}
		if obj.URL == nil {
			return nil, fmt.Errorf("output object has no url field: %s", truncate(string(raw), 200))
		}
		return SyncURLObject{URL: *obj.URL}, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode output array: %w", err)
		}
		arr := ArrayOf{Items: make([]Output, 0, len(items))}
		for _, item := range items {
			o, err := DecodeOutput(item)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, o)
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unrecognized output shape: %s", truncate(string(raw), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
