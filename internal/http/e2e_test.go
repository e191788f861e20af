package httpapp_test

import (
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/stanblog/stanblog/internal/auth"
	"github.com/stanblog/stanblog/internal/client"
	"github.com/stanblog/stanblog/internal/config"
	httpapp "github.com/stanblog/stanblog/internal/http"
	"github.com/stanblog/stanblog/internal/store/sqlite"
	"github.com/stanblog/stanblog/internal/upload"
)

func TestEndToEndServer(t *testing.T) {
	st, err := sqlite.Open("file:e2e_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	uploads, err := upload.New(t.TempDir())
	if err != nil {
		t.Fatalf("uploads: %v", err)
	}

	cfg := config.Config{Addr: ":0", Secret: "e2e-secret"}
	tokens := auth.NewTokens([]byte(cfg.Secret), 0)
	server := httpapp.NewServer(st, auth.NewService(st, tokens), uploads, cfg)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	httpServer := &http.Server{Handler: server}
	go func() {
		_ = httpServer.Serve(listener)
	}()
	defer httpServer.Close()

	baseURL := "http://" + listener.Addr().String()
	c := client.New(baseURL)

	if _, err := c.Register("bob", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	user, err := c.Login("bob", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	profile, err := c.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.ID != user.ID || profile.Username != "bob" {
		t.Fatalf("profile mismatch: %+v vs %+v", profile, user)
	}

	created, err := c.CreatePost("Hello", "S", "C", "a.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	got, err := c.GetPost(created.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if got.Title != "Hello" || got.Summary != "S" || got.Content != "C" {
		t.Fatalf("unexpected post: %+v", got)
	}
	if !strings.HasSuffix(got.Cover, ".jpg") {
		t.Fatalf("expected .jpg cover, got %q", got.Cover)
	}
	if got.Author != "bob" {
		t.Fatalf("expected author bob, got %q", got.Author)
	}

	posts, err := c.ListPosts()
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", posts)
	}

	// The cover is retrievable over HTTP.
	resp, err := http.Get(baseURL + "/" + got.Cover)
	if err != nil {
		t.Fatalf("get cover: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cover status %d", resp.StatusCode)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := c.Profile(); err == nil {
		t.Fatalf("expected profile to fail after logout")
	}
}
