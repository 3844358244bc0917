// Package main provides the entry point for the Puzzle Maker application.
package main

import (
	"log"
	"os"
	"path/filepath"

	"puzzle-maker/internal/app"
	"puzzle-maker/internal/version"
	"puzzle-maker/ui/mainwindow"
	"puzzle-maker/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Puzzle Maker"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.NewWithID("io.puzzlemaker.app")
	fyneApp.Settings().SetTheme(&app.PuzzleTheme{})

	appState := app.NewState()
	appPrefs := prefs.Load()

	if dir, err := os.UserConfigDir(); err == nil {
		snapDir := filepath.Join(dir, "puzzle-maker", "data")
		if err := appState.SetSnapshotDir(snapDir); err != nil {
			log.Printf("Snapshot directory unavailable: %v", err)
		}
	}

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// A folder or a saved layout may be given on the command line.
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			if _, err := appState.LoadFolder(arg); err != nil {
				log.Printf("Failed to load folder %s: %v", arg, err)
			}
		} else {
			if _, err := appState.LoadLayout(arg); err != nil {
				log.Printf("Failed to load layout %s: %v", arg, err)
			}
		}
	}

	win.ShowAndRun()
}
