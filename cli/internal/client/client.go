// Package client talks to the ingest API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is an authenticated HTTP client for the ingest API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IngestResponse is the API acknowledgement for a queued event.
type IngestResponse struct {
	Status                  string `json:"status"`
	EventID                 string `json:"event_id"`
	Queue                   string `json:"queue"`
	EstimatedProcessingTime string `json:"estimated_processing_time"`
}

// SendEvent submits one event for asynchronous processing.
func (c *Client) SendEvent(eventType string, data map[string]interface{}) (*IngestResponse, error) {
	payload := map[string]interface{}{
		"event_type": eventType,
		"data":       data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/v1/events/ingest", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("ingest failed with status %d", resp.StatusCode)
	}

	var ack IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// EventTypes lists the event types the pipeline accepts.
func (c *Client) EventTypes() ([]string, error) {
	var resp struct {
		EventTypes []string `json:"event_types"`
	}
	if err := c.get("/api/v1/events/types", nil, &resp); err != nil {
		return nil, err
	}
	return resp.EventTypes, nil
}

// QueueStatus reports pending depth per queue, keyed by event type.
func (c *Client) QueueStatus() (map[string]QueueInfo, error) {
	var resp struct {
		QueueStatus map[string]QueueInfo `json:"queue_status"`
	}
	if err := c.get("/api/v1/events/queue-status", nil, &resp); err != nil {
		return nil, err
	}
	return resp.QueueStatus, nil
}

type QueueInfo struct {
	QueueName     string `json:"queue_name"`
	PendingEvents int64  `json:"pending_events"`
}

// Recent returns the latest processed results, newest first.
func (c *Client) Recent(eventType string, limit int) ([]map[string]interface{}, error) {
	query := url.Values{}
	if eventType != "" {
		query.Set("event_type", eventType)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Events []map[string]interface{} `json:"events"`
	}
	if err := c.get("/api/v1/events/recent", query, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// Analytics fetches one analytics view: dashboard, leads, blockchain, or chat.
func (c *Client) Analytics(view string) (map[string]interface{}, error) {
	var resp map[string]interface{}
	if err := c.get("/api/v1/analytics/"+view, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) get(path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
