package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"

	"github.com/rs/zerolog"
)

type titleEntry struct {
	Title        string  `json:"title"`
	PosterURL    *string `json:"posterUrl"`
	TrailerURL   *string `json:"trailerUrl"`
	ReleaseYear  *int    `json:"releaseYear"`
	DurationMins *int    `json:"durationMinutes"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "mock-metadata.json", "path to mock data file")
		verbose = flag.Bool("verbose", false, "log every request")
	)
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "metadata-mock").Logger()

	file, err := os.ReadFile(*data)
	if err != nil {
		logger.Fatal().Err(err).Msg("read mock data")
	}

	var payload map[string]titleEntry
	if err := json.Unmarshal(file, &payload); err != nil {
		logger.Fatal().Err(err).Msg("parse mock data")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/titles", func(w http.ResponseWriter, r *http.Request) {
		title := r.URL.Query().Get("title")
		if *verbose {
			logger.Info().Str("title", title).Msg("lookup")
		}
		entry, ok := payload[title]
		if !ok {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("entries", len(payload)).Msg("mock metadata service listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}
