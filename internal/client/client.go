// Package client provides a Go client for the stanblog API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"
)

// Client is a stanblog API client. The session cookie set by Login is kept
// in the client's cookie jar and sent with later requests.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Cover     string    `json:"cover"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a new stanblog client.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
}

// Register creates a new user on the server.
func (c *Client) Register(username, password string) (User, error) {
	var user User
	err := c.postJSON("/register", map[string]string{
		"username": username,
		"password": password,
	}, &user)
	return user, err
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(username, password string) (User, error) {
	var user User
	err := c.postJSON("/login", map[string]string{
		"username": username,
		"password": password,
	}, &user)
	return user, err
}

// Logout clears the session cookie.
func (c *Client) Logout() error {
	return c.postJSON("/logout", nil, nil)
}

// Profile returns the identity of the logged-in user.
func (c *Client) Profile() (User, error) {
	var user User
	resp, err := c.HTTPClient.Get(c.BaseURL + "/profile")
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()
	if err := decodeResponse(resp, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// CreatePost creates a post. cover may be nil for a post without a cover
// image; coverName carries the original filename so the server can keep the
// extension.
func (c *Client) CreatePost(title, summary, content, coverName string, cover io.Reader) (Post, error) {
	return c.sendPost(http.MethodPost, map[string]string{
		"title":   title,
		"summary": summary,
		"content": content,
	}, coverName, cover)
}

// UpdatePost replaces a post's fields. Only the post's author may call this.
func (c *Client) UpdatePost(id int64, title, summary, content, coverName string, cover io.Reader) (Post, error) {
	return c.sendPost(http.MethodPut, map[string]string{
		"id":      strconv.FormatInt(id, 10),
		"title":   title,
		"summary": summary,
		"content": content,
	}, coverName, cover)
}

// ListPosts returns the most recent posts, newest first.
func (c *Client) ListPosts() ([]Post, error) {
	resp, err := c.HTTPClient.Get(c.BaseURL + "/post")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var posts []Post
	if err := decodeResponse(resp, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(id int64) (Post, error) {
	resp, err := c.HTTPClient.Get(fmt.Sprintf("%s/post/%d", c.BaseURL, id))
	if err != nil {
		return Post{}, err
	}
	defer resp.Body.Close()
	var post Post
	if err := decodeResponse(resp, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

func (c *Client) sendPost(method string, fields map[string]string, coverName string, cover io.Reader) (Post, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			return Post{}, err
		}
	}
	if cover != nil {
		part, err := mw.CreateFormFile("file", coverName)
		if err != nil {
			return Post{}, err
		}
		if _, err := io.Copy(part, cover); err != nil {
			return Post{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return Post{}, err
	}

	req, err := http.NewRequest(method, c.BaseURL+"/post", &buf)
	if err != nil {
		return Post{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Post{}, err
	}
	defer resp.Body.Close()
	var post Post
	if err := decodeResponse(resp, &post); err != nil {
		return Post{}, err
	}
	return post, nil
}

func (c *Client) postJSON(path string, payload any, dest any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	resp, err := c.HTTPClient.Post(c.BaseURL+path, "application/json", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, dest)
}

func decodeResponse(resp *http.Response, dest any) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, string(raw))
	}
	if dest == nil {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
