package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ideaforge/internal/events"
	"ideaforge/internal/generation"
	"ideaforge/internal/services"
	"ideaforge/internal/utils"
)

const (
	startRetryInterval = 2 * time.Second
	startRetryLimit    = 150
	pollInterval       = 200 * time.Millisecond
)

func main() {
	if err := utils.LoadEnv(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}
	events.EnableLogEmitter()

	app := NewApp()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.startup(ctx); err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.shutdown(ctx)

	if err := run(app, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(app *App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: ideaforge generate <idea text | @file> | analyze <dump text | @file> [businessModelID] | list")
	}

	switch args[0] {
	case "list":
		return listCommitted(app)
	case "generate":
		input, err := inputArg(args[1:])
		if err != nil {
			return err
		}
		return runSession(app, func() (*services.StartResult, error) {
			return app.StartBusinessModelGeneration(input)
		})
	case "analyze":
		input, err := inputArg(args[1:])
		if err != nil {
			return err
		}
		var businessModelID uint
		if len(args) > 2 {
			id, err := strconv.ParseUint(args[2], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid business model ID %q", args[2])
			}
			businessModelID = uint(id)
		}
		return runSession(app, func() (*services.StartResult, error) {
			return app.StartDumpAnalysis(input, businessModelID)
		})
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func listCommitted(app *App) error {
	businessModels, err := app.GetBusinessModels()
	if err != nil {
		return err
	}
	dumps, err := app.GetIdeaDumps()
	if err != nil {
		return err
	}

	now := time.Now()
	for _, bm := range businessModels {
		fmt.Printf("business model #%d (%s): %s\n", bm.ID, utils.TimeAgo(bm.UpdatedAt, now), bm.Summary)
	}
	for _, dump := range dumps {
		fmt.Printf("idea dump #%d (%s): %s [%s]\n", dump.ID, utils.TimeAgo(dump.UpdatedAt, now), dump.Title, dump.Classification)
	}
	return nil
}

// inputArg reads the free-text input from argv. An argument of the form
// @path reads the file instead, joining its non-empty lines.
func inputArg(args []string) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	arg := args[0]
	if strings.HasPrefix(arg, "@") {
		lines, err := utils.ReadNonEmptyLines(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return strings.Join(lines, "\n"), nil
	}
	return arg, nil
}

// runSession starts a session, retrying while backends report a waiting
// state, then polls it to completion and commits the result.
func runSession(app *App, start func() (*services.StartResult, error)) error {
	var sessionID string
	for attempt := 0; ; attempt++ {
		result, err := start()
		if err != nil {
			return err
		}
		if !result.Wait {
			sessionID = result.SessionID
			break
		}
		if attempt >= startRetryLimit {
			return fmt.Errorf("no backend became available: %s", result.Reason)
		}
		log.Printf("waiting: %s", result.Reason)
		time.Sleep(startRetryInterval)
	}

	var snap *generation.Snapshot
	for {
		var err error
		snap, err = app.GetSession(sessionID)
		if err != nil {
			return err
		}
		if snap.Status == generation.StatusComplete || snap.Status == generation.StatusError {
			break
		}
		time.Sleep(pollInterval)
	}

	for _, name := range snap.FieldOrder {
		fmt.Printf("%s: %s\n", name, snap.FieldValues[name])
	}
	if snap.Status == generation.StatusError {
		return fmt.Errorf("generation failed: %s", snap.ErrorMessage)
	}

	commit, err := app.CommitSession(sessionID)
	if err != nil {
		return err
	}
	if commit.BusinessModelID != 0 {
		fmt.Printf("committed business model #%d\n", commit.BusinessModelID)
	}
	if commit.IdeaDumpID != 0 {
		fmt.Printf("committed idea dump #%d\n", commit.IdeaDumpID)
	}
	return nil
}
