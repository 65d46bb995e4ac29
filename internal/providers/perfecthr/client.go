package perfecthr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"hr-sync/internal/httpx"
)

const (
	employeesPath = "/v1/employees"
	acceptJSON    = "application/json"
)

// Employee is a raw employee record as decoded from the API. Every field is
// optional and may be missing or null.
type Employee = map[string]any

// Config holds what is needed to talk to Perfect HR.
type Config struct {
	BaseURL  string
	APIToken string
	// Timeout bounds the whole exchange; zero means httpx.DefaultTimeout.
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	HTTP *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = httpx.DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		HTTP: httpx.NewClient(cfg.APIToken, cfg.Timeout),
	}
}

// EmployeesURL builds the employees endpoint, optionally filtered by
// updated_since. since is validated first; an empty since means no filter.
func (c *Client) EmployeesURL(since string) (string, error) {
	if since != "" {
		if err := ValidateTimestamp(since); err != nil {
			return "", err
		}
	}

	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + employeesPath)
	if err != nil {
		return "", &Error{Kind: KindValidation, Msg: fmt.Sprintf("invalid base url %q", c.cfg.BaseURL), Err: err}
	}
	if since != "" {
		q := url.Values{}
		q.Set("updated_since", since)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// GetEmployees performs one GET against /v1/employees and returns the
// records under "employees", untouched. A missing "employees" key yields an
// empty slice.
func (c *Client) GetEmployees(ctx context.Context, since string) ([]Employee, error) {
	endpoint, err := c.EmployeesURL(since)
	if err != nil {
		return nil, err
	}

	_, body, err := httpx.Do(
		ctx,
		c.HTTP,
		func(ctx context.Context) (*http.Request, error) {
			r, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			r.Header.Set("Accept", acceptJSON)
			return r, nil
		},
	)
	if err != nil {
		var herr *httpx.HTTPError
		if errors.As(err, &herr) {
			return nil, statusError(herr.StatusCode, strings.TrimSpace(string(herr.Body)), herr)
		}
		var terr *httpx.TransportError
		if errors.As(err, &terr) {
			return nil, networkError(terr.Err)
		}
		return nil, networkError(err)
	}

	return decodeEmployees(body)
}

func decodeEmployees(body []byte) ([]Employee, error) {
	if !gjson.ValidBytes(body) {
		return nil, shapeError(fmt.Sprintf("body is not valid JSON: %s", httpx.Snippet(body, 200)), nil)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, shapeError("top-level value must be an object", nil)
	}

	list := root.Get("employees")
	if !list.Exists() {
		return []Employee{}, nil
	}
	if !list.IsArray() {
		return nil, shapeError("employees must be a list", nil)
	}

	items := list.Array()
	out := make([]Employee, 0, len(items))
	for i, item := range items {
		switch {
		case item.Type == gjson.Null:
			out = append(out, nil)
		case item.IsObject():
			rec, err := decodeRecord(item.Raw)
			if err != nil {
				return nil, shapeError(fmt.Sprintf("employees[%d]: %v", i, err), err)
			}
			out = append(out, rec)
		default:
			// A raw record is a mapping; its fields are not checked here.
			return nil, shapeError(fmt.Sprintf("employees[%d] must be an object", i), nil)
		}
	}
	return out, nil
}

// decodeRecord keeps numbers as json.Number so large integer ids survive.
func decodeRecord(raw string) (Employee, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var rec Employee
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}
