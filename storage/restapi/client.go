// Package restapi is the client of the external records API. It implements the student, teacher
// and subject repositories over HTTP.
package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/subject"
)

// alreadyAssignedPhrase is how the API words a duplicate assignment, in JSON messages and plain bodies.
const alreadyAssignedPhrase = "já associada"

type Client struct {
	baseURL string
	http    *rest.Client
}

// NewClient returns a client for the API at baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func NewClientFromConfig(conf *core.Config) *Client {
	return NewClient(conf.API.BaseURL, conf.API.Timeout)
}

// path joins escaped segments under the base URL.
func (c *Client) path(segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// query drops the empty values.
func query(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		if v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (c *Client) do(ctx context.Context, method rest.Method, endpoint string, params map[string]string, in, out interface{}) error {
	req := rest.Request{
		Method:      method,
		BaseURL:     endpoint,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query(params),
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		req.Body = body
	}

	res, err := c.http.SendWithContext(ctx, req)
	if err != nil {
		return &core.TransportError{Err: err}
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(res)
	}

	if out == nil || strings.TrimSpace(res.Body) == "" {
		return nil
	}
	if err = json.Unmarshal([]byte(res.Body), out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, endpoint)
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
}

// newAPIError keeps the `message` of JSON bodies; anything else leaves Message empty.
func newAPIError(res *rest.Response) *core.APIError {
	apiErr := &core.APIError{StatusCode: res.StatusCode, Body: res.Body}
	var eb errorBody
	if err := json.Unmarshal([]byte(res.Body), &eb); err == nil {
		apiErr.Message = strings.TrimSpace(eb.Message)
	}
	return apiErr
}

// assignError maps a refused duplicate assignment to subject.ErrAlreadyAssigned.
func assignError(err error) error {
	var apiErr *core.APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message+" "+apiErr.Body, alreadyAssignedPhrase) {
		return errors.Wrap(subject.ErrAlreadyAssigned, apiErr.Error())
	}
	return err
}
