package main

import (
	"flag"
	"log"
	"math/rand"
	"strings"

	"github.com/stanblog/stanblog/internal/client"
)

var users = []struct {
	name     string
	password string
}{
	{"stan", "hunter2-but-longer"},
	{"alice", "correct-horse-battery"},
	{"bob", "pw1-pw2-pw3"},
}

var posts = []struct {
	title   string
	summary string
	content string
}{
	{"Hello, world", "First post on the new backend", "This blog now runs on a small Go service with sqlite underneath."},
	{"Why every blog needs a rewrite", "A confession", "Every few years the itch returns and the stack gets replaced."},
	{"Cover images, finally", "Uploads work", "Posts can carry a single cover image, served straight from the uploads directory."},
	{"Notes on cookie sessions", "JWT in a cookie", "The session token is a signed JWT carried in an HttpOnly cookie."},
	{"Reading list, September", "Links worth your time", "A short list of articles that survived the tab purge this month."},
	{"Shipping small services", "Less is more", "A single binary, one database file, and a directory of uploads."},
}

func main() {
	baseURL := flag.String("url", "http://localhost:4000", "stanblog server URL")
	flag.Parse()

	log.Printf("Seeding %s...", *baseURL)

	var clients []*client.Client
	for _, u := range users {
		c := client.New(*baseURL)
		if _, err := c.Register(u.name, u.password); err != nil {
			// Already registered is fine on a reseed.
			if !strings.Contains(err.Error(), "duplicate") {
				log.Fatalf("register %s: %v", u.name, err)
			}
		}
		if _, err := c.Login(u.name, u.password); err != nil {
			log.Fatalf("login %s: %v", u.name, err)
		}
		log.Printf("✓ Logged in: %s", u.name)
		clients = append(clients, c)
	}

	for _, p := range posts {
		c := clients[rand.Intn(len(clients))]
		post, err := c.CreatePost(p.title, p.summary, p.content, "", nil)
		if err != nil {
			log.Fatalf("create post %q: %v", p.title, err)
		}
		log.Printf("✓ Created post %d: %s (by %s)", post.ID, post.Title, post.Author)
	}

	log.Println("Done.")
}
