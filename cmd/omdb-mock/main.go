package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/movie-catalog/internal/logging"
)

type ratingEntry struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type movieEntry struct {
	Title    string        `json:"Title"`
	Year     string        `json:"Year,omitempty"`
	Language string        `json:"Language"`
	Ratings  []ratingEntry `json:"Ratings"`
}

type apiPayload struct {
	movieEntry
	IMDbID   string `json:"imdbID"`
	Response string `json:"Response"`
}

type apiErrorPayload struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

func main() {
	var (
		port   = flag.String("port", "9099", "port to listen on")
		data   = flag.String("data", "mock-omdb.json", "path to mock data file keyed by imdb id")
		apiKey = flag.String("apikey", "", "require this api key when set")
		debug  = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	level := "info"
	if *debug {
		level = "debug"
	}
	logger := logging.New(logging.Config{Level: level, Format: "console"})

	file, err := os.ReadFile(*data)
	if err != nil {
		logger.Fatal().Err(err).Msg("read mock data")
	}

	var entries map[string]movieEntry
	if err := json.Unmarshal(file, &entries); err != nil {
		logger.Fatal().Err(err).Msg("parse mock data")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", lookupHandler(entries, *apiKey, logger))

	addr := ":" + *port
	logger.Info().Str("addr", addr).Int("entries", len(entries)).Msg("mock omdb listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func lookupHandler(entries map[string]movieEntry, apiKey string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		id := query.Get("i")
		logger.Debug().Str("imdb_id", id).Msg("lookup")

		w.Header().Set("Content-Type", "application/json")
		if apiKey != "" && query.Get("apikey") != apiKey {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(apiErrorPayload{Response: "False", Error: "Invalid API key!"})
			return
		}

		entry, ok := entries[id]
		if !ok {
			_ = json.NewEncoder(w).Encode(apiErrorPayload{Response: "False", Error: "Incorrect IMDb ID."})
			return
		}
		if err := json.NewEncoder(w).Encode(apiPayload{movieEntry: entry, IMDbID: id, Response: "True"}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
