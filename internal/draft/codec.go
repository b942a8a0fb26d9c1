// Package draft turns an unpublished dataset into a token that can travel
// inside a URL fragment, and back.
package draft

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/estimo/internal/domain"
)

// CurrentVersion is written into every new token.
const CurrentVersion = 1

// State is the content carried by a token.
type State struct {
	Items domain.Dataset
}

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

var (
	errEmptyToken         = errors.New("empty token")
	errNotBase64          = errors.New("token is not base64")
	errMissingItems       = errors.New("token has no items array")
	errUnsupportedVersion = errors.New("unsupported token version")
)

// Codec encodes and decodes draft tokens. The zero value logs through
// slog.Default.
type Codec struct {
	logger *slog.Logger
}

// NewCodec returns a Codec that reports rejected tokens to logger.
func NewCodec(logger *slog.Logger) *Codec {
	return &Codec{logger: logger}
}

// Encode produces an unpadded base64url token of the versioned JSON
// envelope. The alphabet contains no URL delimiter characters.
func (c *Codec) Encode(s State) (string, error) {
	items, err := json.Marshal(nonNil(s.Items))
	if err != nil {
		return "", fmt.Errorf("encoding draft items: %w", err)
	}
	data, err := json.Marshal(envelope{Version: CurrentVersion, Items: items})
	if err != nil {
		return "", fmt.Errorf("encoding draft envelope: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode never fails loudly: a malformed, truncated or unsupported token
// is logged as a warning and reported as absent.
func (c *Codec) Decode(token string) (State, bool) {
	s, err := decode(token)
	if err != nil {
		c.log().Warn("invalid draft token", "error", err.Error(), "token_len", len(token))
		return State{}, false
	}
	return s, true
}

func (c *Codec) log() *slog.Logger {
	if c == nil || c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

func decode(token string) (State, error) {
	if token == "" {
		return State{}, errEmptyToken
	}
	raw, err := decodeBase64(token)
	if err != nil {
		return State{}, err
	}

	var env envelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&env); err != nil {
		return State{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if dec.More() {
		return State{}, fmt.Errorf("decoding envelope: trailing data")
	}
	// Tokens without a version predate the envelope and carry the same
	// {items} shape, so they are read as version 0.
	if env.Version < 0 || env.Version > CurrentVersion {
		return State{}, fmt.Errorf("%w: %d", errUnsupportedVersion, env.Version)
	}
	trimmed := bytes.TrimSpace(env.Items)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return State{}, errMissingItems
	}

	var items domain.Dataset
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return State{}, fmt.Errorf("decoding items: %w", err)
	}
	return State{Items: nonNil(items)}, nil
}

// decodeBase64 accepts the current unpadded URL alphabet as well as padded
// and standard-alphabet tokens produced by older share links.
func decodeBase64(token string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	}
	for _, enc := range encodings {
		if raw, err := enc.DecodeString(token); err == nil {
			return raw, nil
		}
	}
	return nil, errNotBase64
}

func nonNil(d domain.Dataset) domain.Dataset {
	if d == nil {
		return domain.Dataset{}
	}
	return d
}

var defaultCodec = &Codec{}

// Encode encodes s with the package default codec.
func Encode(s State) (string, error) {
	return defaultCodec.Encode(s)
}

// Decode decodes token with the package default codec.
func Decode(token string) (State, bool) {
	return defaultCodec.Decode(token)
}
