// Package web renders the song and playlist pages.
//
// # Routes
//
//	GET /           → index page, empty page title
//	GET /songs      → all songs, optionally filtered by ?artist= or ?tag=
//	GET /playlists  → all playlists
//
// # Templates
//
// Templates are embedded from templates/. Each page defines a "content" block that is
// rendered inside layout.html. Pages are rendered into a buffer first so a template
// failure produces a clean 500 instead of a half-written page.
//
// # Lifecycle
//
// Handlers only read from songs and playlists. The entry point runs migrations before
// registering these routes, so the tables are guaranteed to exist.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spkr/internal/models"
	"github.com/desertthunder/spkr/internal/server"
)

//go:embed templates
var templateFiles embed.FS

// SongLister is the subset of the song repository the pages need.
type SongLister interface {
	List(criteria map[string]any) ([]*models.Song, error)
}

// PlaylistLister is the subset of the playlist repository the pages need.
type PlaylistLister interface {
	List(criteria map[string]any) ([]*models.Playlist, error)
}

// Page is the data passed to every template.
type Page struct {
	Title     string
	Songs     []*models.Song
	Playlists []*models.Playlist
}

// App serves the web pages.
type App struct {
	songs     SongLister
	playlists PlaylistLister
	logger    *log.Logger
	pages     map[string]*template.Template
}

// AppOpts contains the dependencies for [NewApp].
type AppOpts struct {
	Songs     SongLister
	Playlists PlaylistLister
	Logger    *log.Logger
}

// NewApp parses the embedded templates and returns an [App].
func NewApp(opts AppOpts) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"index.html", "songs/index.html", "playlists/index.html"} {
		tmpl, err := template.ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &App{
		songs:     opts.Songs,
		playlists: opts.Playlists,
		logger:    opts.Logger,
		pages:     pages,
	}, nil
}

// Register adds the application's routes to router.
func (a *App) Register(router server.Router) {
	router.Handle(http.MethodGet, "/{$}", http.HandlerFunc(a.Index))
	router.Handle(http.MethodGet, "/songs", http.HandlerFunc(a.Songs))
	router.Handle(http.MethodGet, "/playlists", http.HandlerFunc(a.Playlists))
}

// Index renders the landing page.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, "index.html", Page{Title: ""})
}

// Songs renders the song list.
func (a *App) Songs(w http.ResponseWriter, r *http.Request) {
	criteria := map[string]any{
		"artist": r.URL.Query().Get("artist"),
		"tag":    r.URL.Query().Get("tag"),
	}

	songs, err := a.songs.List(criteria)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.render(w, r, "songs/index.html", Page{Title: "Songs", Songs: songs})
}

// Playlists renders the playlist list.
func (a *App) Playlists(w http.ResponseWriter, r *http.Request) {
	playlists, err := a.playlists.List(nil)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	a.render(w, r, "playlists/index.html", Page{Title: "Playlists", Playlists: playlists})
}

func (a *App) render(w http.ResponseWriter, r *http.Request, name string, page Page) {
	var buf bytes.Buffer
	if err := a.pages[name].ExecuteTemplate(&buf, "layout", page); err != nil {
		a.fail(w, r, fmt.Errorf("failed to render %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		buf.WriteTo(w)
	}
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("page failed", "path", r.URL.Path, "request_id", server.RequestIDFrom(r.Context()), "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
