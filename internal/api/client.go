// Package api calls the game server's Twirp-style JSON endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	tournamentService = "tournament_service.TournamentService"
	profileService    = "user_service.ProfileService"
)

var ErrMissingTournament = errors.New("missing tournament id")

// Error is a non-2xx response. Code and Msg come from the server's error
// body when it has one.
type Error struct {
	Status int    `json:"-"`
	Code   string `json:"code"`
	Msg    string `json:"msg"`
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s: %s", e.Status, e.Code, e.Msg)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// CheckIn marks the caller as present for the tournament's next round.
func (c *Client) CheckIn(ctx context.Context, tournamentID string) error {
	if tournamentID == "" {
		return ErrMissingTournament
	}
	req := struct {
		ID string `json:"id"`
	}{ID: tournamentID}
	return c.call(ctx, tournamentService, "CheckIn", req)
}

// UpdateProfile replaces the caller's bio.
func (c *Client) UpdateProfile(ctx context.Context, about string) error {
	req := struct {
		About string `json:"about"`
	}{About: norm.NFC.String(about)}
	return c.call(ctx, profileService, "UpdateProfile", req)
}

// call posts in and discards the response body; neither endpoint returns
// anything the caller uses.
func (c *Client) call(ctx context.Context, service, method string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	url := fmt.Sprintf("%s/twirp/%s/%s", c.baseURL, service, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return nil
}
