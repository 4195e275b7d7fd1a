package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/focusflow/internal/credential"
	"github.com/nhle/focusflow/internal/model"
)

// csrfFormField is the form field name Django reads the token from.
const csrfFormField = "csrfmiddlewaretoken"

// maxPageBytes bounds how much of a response body is read.
const maxPageBytes = 4 << 20

// Client talks to the dashboard server with a session cookie. Every
// mutating request echoes the CSRF token read from the cookie jar at call
// time.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	csrfHeader string
	token      credential.Provider
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a total timeout per request. Zero (the default) leaves
// requests bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTransport replaces the base RoundTripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// WithCSRFHeader overrides the header name the token is sent in.
func WithCSRFHeader(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.csrfHeader = name
		}
	}
}

// WithTokenProvider replaces the jar-backed token lookup.
func WithTokenProvider(p credential.Provider) Option {
	return func(c *Client) {
		if p != nil {
			c.token = p
		}
	}
}

// NewClient creates a client for the dashboard at baseURL. The CSRF token
// is read from the csrfCookie cookie unless WithTokenProvider is given.
func NewClient(baseURL, csrfCookie string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	if csrfCookie == "" {
		csrfCookie = "csrftoken"
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Jar: jar},
		jar:        jar,
		csrfHeader: "X-CSRFToken",
	}
	c.token = credential.FromJar(jar, c.rootURL(), csrfCookie)

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) rootURL() *url.URL {
	u := *c.baseURL
	u.Path = "/"
	return &u
}

// BaseURL returns the dashboard root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Jar returns the cookie jar shared by all requests.
func (c *Client) Jar() http.CookieJar { return c.jar }

// SetCookie stores a cookie for the dashboard origin, e.g. the session
// cookie loaded from the keyring.
func (c *Client) SetCookie(name, value string) {
	if value == "" {
		return
	}
	c.jar.SetCookies(c.rootURL(), []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// Cookie returns the current value of a cookie for the dashboard origin.
func (c *Client) Cookie(name string) (string, bool) {
	return credential.ReadToken(credential.CookieString(c.jar.Cookies(c.rootURL())), name)
}

// Post issues an authenticated POST to path with an empty body. The
// response body is ignored. It returns a *StatusError for any non-2xx
// answer; any other error means the request never completed.
func (c *Client) Post(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	c.attachToken(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request POST %s: %w", path, err)
	}
	drainAndClose(resp.Body)

	return checkStatus(resp, http.MethodPost, path)
}

// SubmitForm performs the submission a native form would: the CSRF token
// goes in both the form body and the header.
func (c *Client) SubmitForm(
	ctx context.Context,
	method string,
	action string,
	values url.Values,
) error {
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	form := url.Values{}
	for k, vs := range values {
		form[k] = append([]string(nil), vs...)
	}
	if tok, ok := c.token(); ok && method != http.MethodGet {
		form.Set(csrfFormField, tok)
	}

	var body io.Reader
	target := action
	if method == http.MethodGet {
		if enc := form.Encode(); enc != "" {
			target += "?" + enc
		}
	} else {
		body = strings.NewReader(form.Encode())
	}

	req, err := c.newRequest(ctx, method, target, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		c.attachToken(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("submitting form %s %s: %w", method, action, err)
	}
	drainAndClose(resp.Body)

	return checkStatus(resp, method, action)
}

// LoadPage fetches the dashboard page, which refreshes the CSRF cookie,
// and returns the flash messages the server embedded in it.
func (c *Client) LoadPage(ctx context.Context) ([]model.ServerMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, PagePath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request GET %s: %w", PagePath, err)
	}
	body, err := readLimited(resp.Body, maxPageBytes)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", PagePath, err)
	}
	if err := checkStatus(resp, http.MethodGet, PagePath); err != nil {
		return nil, err
	}

	return ExtractMessages(body), nil
}

// ListTasks returns every task visible to the session, newest first,
// following pagination.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	return listAll[model.Task](ctx, c, TasksPath+"?ordering=-created_at")
}

// ListUnread returns unread notifications.
func (c *Client) ListUnread(ctx context.Context) ([]model.Notification, error) {
	return listAll[model.Notification](ctx, c, NotificationsPath+"?is_read=false")
}

// Load performs a full refresh: page (messages and cookies), tasks and
// unread notifications.
func (c *Client) Load(ctx context.Context) (*Snapshot, error) {
	msgs, err := c.LoadPage(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	unread, err := c.ListUnread(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Tasks: tasks, Unread: unread, Messages: msgs}, nil
}

// getJSON performs a GET and decodes the JSON body into result.
func (c *Client) getJSON(ctx context.Context, path string, result interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request GET %s: %w", path, err)
	}
	body, err := readLimited(resp.Body, maxPageBytes)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := checkStatus(resp, http.MethodGet, path); err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshaling response from GET %s: %w", path, err)
	}
	return nil
}

// listAll walks a paginated listing until next is empty.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	next := path
	for next != "" {
		var page Page[T]
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		next = ""
		if page.Next != nil && *page.Next != "" {
			rel, err := c.relative(*page.Next)
			if err != nil {
				return nil, err
			}
			next = rel
		}
	}
	return all, nil
}

// relative turns an absolute next link into a path on this server.
func (c *Client) relative(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parsing next link %q: %w", link, err)
	}
	if u.IsAbs() && u.Host != c.baseURL.Host {
		return "", fmt.Errorf("next link %q leaves %s", link, c.baseURL.Host)
	}
	return u.RequestURI(), nil
}

func (c *Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	body io.Reader,
) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing path %q: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.ResolveReference(ref).String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	// Django's CSRF check compares Referer with the host on HTTPS.
	req.Header.Set("Referer", c.rootURL().String())
	return req, nil
}

// attachToken sets the CSRF header from a fresh read of the provider.
func (c *Client) attachToken(req *http.Request) {
	if tok, ok := c.token(); ok {
		req.Header.Set(c.csrfHeader, tok)
	}
}

func checkStatus(resp *http.Response, method, path string) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	return nil
}

// drainAndClose discards a bounded amount of the body so the connection
// can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 8<<10))
	_ = body.Close()
}

func readLimited(body io.ReadCloser, limit int64) ([]byte, error) {
	defer body.Close()
	b, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return bytes.TrimSpace(b), nil
}
