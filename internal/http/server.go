package httpapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stanblog/stanblog/internal/auth"
	"github.com/stanblog/stanblog/internal/config"
	"github.com/stanblog/stanblog/internal/model"
	"github.com/stanblog/stanblog/internal/store"
	"github.com/stanblog/stanblog/internal/upload"

	_ "github.com/stanblog/stanblog/docs" // swagger docs

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

const (
	tokenCookie    = "token"
	recentLimit    = 20
	maxUploadBytes = 10 << 20
)

type Server struct {
	store   store.Store
	auth    *auth.Service
	uploads *upload.Files
	cfg     config.Config
	static  http.Handler
}

func NewServer(store store.Store, authSvc *auth.Service, uploads *upload.Files, cfg config.Config) *Server {
	return &Server{
		store:   store,
		auth:    authSvc,
		uploads: uploads,
		cfg:     cfg,
		static:  http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir()))),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.handleCORS(w, r) {
		return
	}

	segments := splitPath(r.URL.Path)

	switch {
	case len(segments) == 1 && segments[0] == "register":
		if r.Method == http.MethodPost {
			s.handleRegister(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "login":
		if r.Method == http.MethodPost {
			s.handleLogin(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "logout":
		if r.Method == http.MethodPost {
			s.handleLogout(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "profile":
		if r.Method == http.MethodGet {
			s.handleProfile(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "post":
		switch r.Method {
		case http.MethodPost:
			s.handleCreatePost(w, r)
			return
		case http.MethodPut:
			s.handleUpdatePost(w, r)
			return
		case http.MethodGet:
			s.handleListPosts(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "post":
		if r.Method == http.MethodGet {
			s.handleGetPost(w, r, segments[1])
			return
		}
	case len(segments) >= 1 && segments[0] == "uploads":
		if r.Method == http.MethodGet {
			s.static.ServeHTTP(w, r)
			return
		}
	case len(segments) >= 1 && segments[0] == "swagger":
		httpSwagger.WrapHandler.ServeHTTP(w, r)
		return
	case len(segments) == 2 && segments[0] == "api" && segments[1] == "openapi.json":
		if r.Method == http.MethodGet {
			s.serveOpenAPIJSON(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "api" && segments[1] == "version":
		if r.Method == http.MethodGet {
			s.handleVersion(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "api" && segments[1] == "stats":
		if r.Method == http.MethodGet {
			s.handleGetStats(w, r)
			return
		}
	default:
		notFound(w)
		return
	}

	methodNotAllowed(w)
}

// handleCORS writes CORS headers when an allowed origin is configured and
// reports whether the request was a preflight it already answered.
func (s *Server) handleCORS(w http.ResponseWriter, r *http.Request) bool {
	if s.cfg.CORSOrigin == "" {
		return false
	}
	w.Header().Set("Access-Control-Allow-Origin", s.cfg.CORSOrigin)
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Add("Vary", "Origin")
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// requireAuth resolves the caller's identity from the token cookie. Any
// failure is answered with 401; it never faults the request.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	cookie, err := r.Cookie(tokenCookie)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, auth.ErrMissingToken)
		return model.Identity{}, false
	}
	identity, err := s.auth.Profile(cookie.Value)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return model.Identity{}, false
	}
	return identity, true
}

func (s *Server) setTokenCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

//	@Summary		Register a new user
//	@Description	Create a user with the provided username and password. The password is stored hashed.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		object{username=string,password=string}	true	"Credentials"
//	@Success		200			{object}	model.User
//	@Failure		400			{object}	map[string]string	"Duplicate username or missing fields"
//	@Router			/register [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrDuplicateUsername) || errors.Is(err, auth.ErrMissingFields) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

//	@Summary		Log in
//	@Description	Authenticate with username and password. On success the session token is set in the `token` cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		object{username=string,password=string}	true	"Credentials"
//	@Success		200			{object}	model.Identity
//	@Failure		400			{object}	map[string]string	"Wrong credentials or unknown user"
//	@Router			/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrWrongCredentials) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	s.setTokenCookie(w, token, 0)
	writeJSON(w, http.StatusOK, model.Identity{UserID: user.ID, Username: user.Username})
}

//	@Summary		Log out
//	@Description	Clear the session cookie. Previously issued tokens are not invalidated server-side.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{string}	string	"ok"
//	@Router			/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setTokenCookie(w, "", -1)
	writeJSON(w, http.StatusOK, "ok")
}

//	@Summary		Get the logged-in identity
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	model.Identity
//	@Failure		401	{object}	map[string]string	"Missing or invalid token"
//	@Router			/profile [get]
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, identity)
}

//	@Summary		Create a post
//	@Description	Create a post with title, summary, content, and an optional cover file.
//	@Tags			Posts
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title	formData	string	true	"Title"
//	@Param			summary	formData	string	false	"Summary"
//	@Param			content	formData	string	false	"Content"
//	@Param			file	formData	file	false	"Cover image"
//	@Success		200		{object}	model.Post
//	@Failure		400		{object}	map[string]string	"Validation error"
//	@Failure		401		{object}	map[string]string	"Missing or invalid token"
//	@Router			/post [post]
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, errors.New("title required"))
		return
	}

	cover, err := s.storeCover(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	post := model.Post{
		Title:     title,
		Summary:   r.FormValue("summary"),
		Content:   r.FormValue("content"),
		Cover:     cover,
		AuthorID:  identity.UserID,
		CreatedAt: time.Now(),
	}
	id, err := s.store.CreatePost(r.Context(), &post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	post.ID = id
	post.Author = identity.Username
	writeJSON(w, http.StatusOK, post)
}

//	@Summary		Update a post
//	@Description	Replace title, summary, and content of an existing post. Only the author may update. The cover is kept unless a new file is supplied.
//	@Tags			Posts
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		formData	integer	true	"Post id"
//	@Param			title	formData	string	true	"Title"
//	@Param			summary	formData	string	false	"Summary"
//	@Param			content	formData	string	false	"Content"
//	@Param			file	formData	file	false	"New cover image"
//	@Success		200		{object}	model.Post
//	@Failure		400		{object}	map[string]string	"Validation error"
//	@Failure		401		{object}	map[string]string	"Missing or invalid token"
//	@Failure		403		{object}	map[string]string	"Caller is not the author"
//	@Failure		404		{object}	map[string]string	"Post not found"
//	@Router			/post [put]
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	if post.AuthorID != identity.UserID {
		writeError(w, http.StatusForbidden, errors.New("you are not the author"))
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, errors.New("title required"))
		return
	}

	cover, err := s.storeCover(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if cover != "" {
		post.Cover = cover
	}

	post.Title = title
	post.Summary = r.FormValue("summary")
	post.Content = r.FormValue("content")
	if err := s.store.UpdatePost(r.Context(), &post); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

//	@Summary		List recent posts
//	@Description	Up to 20 most recent posts, newest first, each with the author's username resolved.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{array}	model.Post
//	@Router			/post [get]
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListRecentPosts(r.Context(), recentLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

//	@Summary		Get a post
//	@Tags			Posts
//	@Produce		json
//	@Param			id	path		integer	true	"Post id"
//	@Success		200	{object}	model.Post
//	@Failure		404	{object}	map[string]string	"Post not found"
//	@Router			/post/{id} [get]
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid post id"))
		return
	}
	post, err := s.store.GetPost(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

//	@Summary		Get site statistics
//	@Tags			Meta
//	@Produce		json
//	@Success		200	{object}	model.SiteStats
//	@Router			/api/stats [get]
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetSiteStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "stanblog",
		"version": "0.1.0",
	})
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write([]byte(doc))
}

// storeCover saves the uploaded cover file, if any. An absent file part is
// not an error; it returns an empty path.
func (s *Server) storeCover(r *http.Request) (string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()
	return s.uploads.Store(file, header.Filename)
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
