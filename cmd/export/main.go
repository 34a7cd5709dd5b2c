// Command export dumps the suggestion store as a JSON backup document or a
// CSV file, reading the configured backend directly without a running
// server.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"suggestbox/pkg/config"
	"suggestbox/pkg/logger"
	"suggestbox/pkg/models"
	"suggestbox/pkg/store"
)

type backup struct {
	Suggestions []models.Suggestion `json:"suggestions"`
	ExportedAt  string              `json:"exportedAt"`
	Version     string              `json:"version"`
}

func main() {
	cfgPath := flag.String("config", "./config.yaml", "path to config file")
	backendFlag := flag.String("backend", "", "storage backend override (file|pebble)")
	dataFlag := flag.String("data", "", "storage path override")
	format := flag.String("format", "json", "output format: json or csv")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	_ = godotenv.Load(".env")
	logger.Init("", "")

	cfg, err := config.Load(config.ResolveConfigPath(*cfgPath, false))
	if err != nil {
		cfg = &config.Config{}
	}
	config.LoadEnvOverrides(cfg)
	if *backendFlag != "" {
		cfg.Storage.Backend = *backendFlag
	}
	if *dataFlag != "" {
		cfg.Storage.Path = *dataFlag
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "./data/suggestions.json"
	}

	var backend store.Backend
	switch cfg.Storage.Backend {
	case "file":
		backend = store.NewFileBackend(cfg.Storage.Path)
	case "pebble":
		backend, err = store.OpenPebble(cfg.Storage.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open pebble at %s: %v\n", cfg.Storage.Path, err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown storage backend: %s\n", cfg.Storage.Backend)
		os.Exit(2)
	}

	st := store.New(backend)
	defer st.Close()

	recs, err := st.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read suggestions: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "json":
		err = writeJSON(w, recs)
	case "csv":
		err = writeCSV(w, recs)
	default:
		fmt.Fprintf(os.Stderr, "unknown format: %s (expected json or csv)\n", *format)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "exported %d suggestion(s)\n", len(recs))
}

func writeJSON(w io.Writer, recs []models.Suggestion) error {
	doc := backup{
		Suggestions: recs,
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:     "1.0",
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeCSV(w io.Writer, recs []models.Suggestion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "content", "createdAt", "isRead"}); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{r.ID, r.Content, r.CreatedAt, strconv.FormatBool(r.IsRead)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
