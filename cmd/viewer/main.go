package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"chat-hub/domain"
	"chat-hub/internal"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
)

// Read-only inspector for a running hub's database. BypassLockGuard lets
// it attach while the server process holds the badger lock.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	opts := badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Viewer started at http://localhost:%d/inspect\n", config.DebugPort)
	database.StartDebugServer(db, config.DebugPort, "/inspect", MessageMapper)

	select {}
}

// MessageMapper renders dm:/gm: rows; any other prefix falls back to the
// default raw view.
func MessageMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)

	switch {
	case strings.HasPrefix(key, "dm:"):
		row.Type = "DIRECT"
	case strings.HasPrefix(key, "gm:"):
		row.Type = "GROUP"
	case strings.HasPrefix(key, "convo:"):
		row.Type = "CONVO"
	default:
		return row
	}

	var message domain.Message
	if err := json.Unmarshal(val, &message); err != nil {
		row.Detail = "Error: unmarshal failed"
		return row
	}

	row.EntityID = message.ID.String()[:8]
	row.Timestamp = message.CreatedAt.Format(time.TimeOnly)
	row.Detail = fmt.Sprintf("%s: %s", message.Author.Username, message.Content)
	return row
}
