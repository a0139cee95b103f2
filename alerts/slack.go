package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// SlackClient posts to a Slack incoming webhook.
type SlackClient struct {
	webhookURL string
	httpClient doer
}

func NewSlackClient(webhookURL string, httpClient doer) *SlackClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SlackClient{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}
}

type slackPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
	// Mrkdwn lets the digest use *bold* and bullet lists.
	Mrkdwn bool `json:"mrkdwn"`
}

func (c *SlackClient) PostMessage(ctx context.Context, channel string, message string) error {
	payload, err := json.Marshal(slackPayload{Channel: channel, Text: message, Mrkdwn: true})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("failed to post message: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("failed to post message: %s", resp.Status)
	}

	return nil
}
