package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"high-hand-board/server/classify"
	"high-hand-board/server/llm"
	"high-hand-board/server/session"
	"high-hand-board/server/store"
)

//
// ===== bootstrap =====
//

// Tries: env var file, ./secrets/openai_api_key.txt, ./server/openai_api_key.txt,
// ./openai_api_key.txt, /app/server/openai_api_key.txt (in container), and /run/secrets/openai_api_key.
func loadAPIKeyFromSecret() {
	if os.Getenv("OPENAI_API_KEY") != "" || os.Getenv("OPENROUTER_API_KEY") != "" {
		return
	}
	var candidates []string
	if p := os.Getenv("OPENAI_API_KEY_FILE"); strings.TrimSpace(p) != "" {
		candidates = append(candidates, p)
	}
	candidates = append(candidates,
		"./secrets/openai_api_key.txt",
		"server/openai_api_key.txt",
		"./server/openai_api_key.txt",
		"./openai_api_key.txt",
		"/app/server/openai_api_key.txt",
		"/run/secrets/openai_api_key",
	)
	for _, path := range candidates {
		if b, err := os.ReadFile(path); err == nil {
			key := strings.TrimSpace(string(b))
			if key != "" {
				os.Setenv("OPENAI_API_KEY", key)
				return
			}
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = godotenv.Load()

	// Load API key from a file if present. The classifier falls back to the
	// phrase matcher when no key is found, so none of this is required.
	loadAPIKeyFromSecret()

	var migrate, board bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--board":
			board = true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	// DB is optional; without it the service runs with the in-memory ledger only.
	var db *store.DB
	if dsn := getenv("DATABASE_URL", ""); dsn != "" {
		p, err := store.Open(dsn)
		if err != nil {
			log.Printf("DB disabled (open failed): %v", err)
		} else {
			db = p
			defer db.Close(context.Background())
			if migrate || asBool(os.Getenv("AUTO_MIGRATE")) {
				if err := store.Migrate(context.Background(), db); err != nil {
					if migrate {
						log.Fatal(err)
					}
					log.Printf("migrate failed (continuing without DB): %v", err)
					db = nil
				} else {
					log.Println("migrated")
				}
			}
		}
	}
	if migrate {
		if db == nil {
			log.Fatal("--migrate needs DATABASE_URL")
		}
		return
	}

	model := getenv("OPENAI_MODEL", getenv("OPENROUTER_MODEL", "gpt-4o-mini"))
	cls := classify.New(model)
	if llm.HasAPIKey() {
		log.Printf("classifier: llm (%s) with matcher fallback", model)
	} else {
		log.Printf("classifier: phrase matcher only (no API key)")
	}

	sess := session.New(cls, atoiDef(os.Getenv("PERIOD_SECONDS"), 1800))
	defer sess.Close()
	if getenv("AUTO_START", "1") != "0" {
		sess.Start()
	}

	if db != nil {
		go mirrorLedger(ctx, sess, db)
	}

	port := getenv("PORT", "8080")
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     Router(cls, sess, db),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /api/live holds its connection open indefinitely.
	}

	go func() {
		log.Printf("listening on http://localhost:%s (Ctrl+C to stop)", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	if board {
		runBoard(ctx, sess)
	} else {
		<-ctx.Done()
	}

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
}

// mirrorLedger copies record/delete events into the audit trail. Failures
// are logged and skipped; the in-memory ledger stays authoritative.
func mirrorLedger(ctx context.Context, sess *session.Session, db *store.DB) {
	subID, ch := sess.Subscribe()
	defer sess.Unsubscribe(subID)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-ch:
			if !open {
				return
			}
			switch ev.Type {
			case "record":
				if ev.Entry == nil {
					continue
				}
				if err := db.InsertHighHand(ctx, *ev.Entry); err != nil {
					log.Printf("audit insert failed for entry %d: %v", ev.Entry.ID, err)
				}
			case "delete":
				if err := db.DeleteHighHand(ctx, ev.EntryID); err != nil {
					log.Printf("audit delete failed for entry %d: %v", ev.EntryID, err)
				}
			}
		}
	}
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	cancel()
}
