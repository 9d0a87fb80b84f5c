package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// apiClient is a thin resty wrapper around the freight agent REST API.
type apiClient struct {
	http *resty.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(90*time.Second).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &apiClient{http: c}
}

func (c *apiClient) do(method, path string, query map[string]string, body interface{}) ([]byte, error) {
	req := c.http.R().SetQueryParams(query)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), e.Error)
		}
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

// runChat sends one message and prints the assistant reply, plus the created
// listing when the turn produced one.
func runChat(c *apiClient, message string, out io.Writer) error {
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}
	data, err := c.do(resty.MethodPost, "/freight-ai-agent", nil, map[string]string{"message": message})
	if err != nil {
		return err
	}
	var res struct {
		Response       string          `json:"response"`
		FunctionResult json.RawMessage `json:"functionResult"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("decode chat response: %w", err)
	}
	_, _ = fmt.Fprintln(out, res.Response)
	if len(res.FunctionResult) > 0 {
		_, _ = fmt.Fprintln(out, string(res.FunctionResult))
	}
	return nil
}

// runList prints the active offers or requests feed as returned by the API.
func runList(c *apiClient, kind string, limit int, out io.Writer) error {
	query := map[string]string{}
	if limit > 0 {
		query["limit"] = fmt.Sprint(limit)
	}
	data, err := c.do(resty.MethodGet, "/api/"+kind, query, nil)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func runGet(c *apiClient, path string, out io.Writer) error {
	data, err := c.do(resty.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
