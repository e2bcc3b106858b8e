package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/tomz197/demonattack/internal/config"
	"github.com/tomz197/demonattack/internal/highscore"
)

const (
	defaultHost       = "0.0.0.0"
	defaultPort       = "8080"
	defaultScoresPath = "/app/data/highscores.yml"
)

//go:embed index.html
var htmlPage string

type scoreJSON struct {
	Rank     int    `json:"rank"`
	Initials string `json:"initials"`
	Score    int    `json:"score"`
	Date     string `json:"date"`
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "demons-web",
		ReportTimestamp: true,
	})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	scoresPath := config.GetEnv("DEMONS_SCORES", defaultScoresPath)

	// The SSH server owns the file; this process only reads it.
	scores := highscore.Open(scoresPath, highscore.WithLogger(logger))
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/scores", func(w http.ResponseWriter, r *http.Request) {
		scores.Load()
		entries := scores.Entries()
		out := make([]scoreJSON, len(entries))
		for i, e := range entries {
			out[i] = scoreJSON{Rank: i + 1, Initials: e.Initials, Score: e.Score, Date: e.Date.Format(time.DateOnly)}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			logger.Debug("write scores", "err", err)
		}
	}).Methods(http.MethodGet)

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("starting web server", "url", "http://"+addr, "scores", scoresPath)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
