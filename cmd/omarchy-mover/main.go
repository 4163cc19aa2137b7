// Command omarchy-mover sorts wallpaper images into Omarchy theme
// directories by dominant color, with an fzf browser, learned corrections,
// and undo.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	mover "omarchy-mover"
	"omarchy-mover/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	auto := flag.Bool("auto", false, "auto-detect themes from image colors")
	manual := flag.Bool("manual", false, "pick a theme for every image")
	copyMode := flag.Bool("copy", false, "copy images instead of moving them")
	dryRun := flag.Bool("dry-run", false, "preview changes without touching files")
	rename := flag.String("rename", "", "rename files on arrival; tokens {name}, {theme}, {date}")
	undo := flag.Bool("undo", false, "undo the most recent operation")
	undoIndex := flag.Int("undo-index", 0, "undo operation `N` from the -history listing (1 is the newest)")
	historyFlag := flag.Bool("history", false, "show recent operations")
	statsFlag := flag.Bool("stats", false, "show learning statistics")
	createConfig := flag.Bool("config", false, "create the default config file")
	configPath := flag.String("config-path", "", "config file `path`")
	exportLearned := flag.String("export-learned", "", "export learned corrections to `path`")
	importLearned := flag.String("import-learned", "", "import learned corrections from `path`")
	replace := flag.Bool("replace", false, "with -import-learned: replace instead of merge")
	clearLearned := flag.Bool("clear-learned", false, "forget every learned correction")
	exportBundle := flag.String("export-bundle", "", "export custom themes and corrections to `path`")
	importBundle := flag.String("import-bundle", "", "import custom themes and corrections from `path`")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	analyze := flag.String("analyze", "", "print detection info for one image (used by the preview pane)")

	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	settings := mover.LoadSettings(*configPath)

	if *analyze != "" {
		return runAnalyze(*analyze, settings)
	}
	if *createConfig {
		path, err := mover.WriteDefaultSettings(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Println("Created default config at:", path)
		fmt.Println("Edit this file to add custom themes and tune detection.")
		return 0
	}

	history := mover.NewHistory(mover.ExpandPath(settings.HistoryFile), settings.MaxHistory)

	if *undo || *undoIndex > 0 {
		i := 0
		if *undoIndex > 0 {
			i = *undoIndex - 1
		}
		msg, err := history.UndoIndex(i)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Println(msg)
		return 0
	}
	if *historyFlag {
		printHistory(history)
		return 0
	}

	learner := mover.NewLearner(mover.NewFileStore(""))

	switch {
	case *statsFlag:
		fmt.Print(mover.FormatLearnStats(learner.Stats()))
		return 0

	case *clearLearned:
		n := learner.Len()
		if err := learner.Clear(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Printf("Cleared %d learned correction(s)\n", n)
		return 0

	case *exportLearned != "":
		if err := learner.Export(*exportLearned); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Printf("Exported %d correction(s) to %s\n", learner.Len(), *exportLearned)
		return 0

	case *importLearned != "":
		if err := learner.Import(*importLearned, !*replace); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Printf("Now tracking %d correction(s)\n", learner.Len())
		return 0

	case *exportBundle != "":
		if err := settings.ExportBundle(*exportBundle, learner); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Println("Exported themes and corrections to", *exportBundle)
		return 0

	case *importBundle != "":
		if err := settings.ImportBundle(*importBundle, *configPath, learner); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		fmt.Println("Imported themes and corrections from", *importBundle)
		return 0
	}

	if *auto && *manual {
		fmt.Fprintln(os.Stderr, "Error: cannot use both -auto and -manual")
		return 1
	}

	mode, err := resolveMode(*auto, *manual, settings.DefaultMode)
	if err != nil && !errors.Is(err, ui.ErrInterrupted) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	if mode == "" {
		fmt.Println("No mode selected. Goodbye!")
		return 0
	}

	images, err := collectImages(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	if len(images) == 0 {
		fmt.Println("\nNo images selected. Goodbye!")
		return 0
	}

	proc := &processor{
		cfg: &mover.Config{
			Palette:        settings.Palette(),
			Learner:        learner,
			History:        history,
			BaseDir:        mover.ExpandPath(settings.BaseDir),
			RenamePattern:  *rename,
			DryRun:         *dryRun,
			SkipDuplicates: settings.SkipDuplicates,
		},
		settings: settings,
		mode:     mode,
		copyMode: *copyMode,
	}
	return proc.run(images)
}

// resolveMode picks the processing mode: explicit flags win, then the
// config's default_mode, then an interactive prompt.
func resolveMode(auto, manual bool, fallback string) (string, error) {
	switch {
	case auto:
		return modeAuto, nil
	case manual:
		return modeManual, nil
	case fallback == modeAuto || fallback == modeManual:
		return fallback, nil
	}

	choice, err := ui.SelectOne([]string{
		"auto    - Detect theme from image colors",
		"manual  - Pick the theme for every image",
	}, "Processing mode: ")
	if err != nil {
		return "", err
	}
	mode, _, _ := strings.Cut(choice, " ")
	return mode, nil
}

// collectImages resolves the positional argument into image paths: a single
// image file directly, a directory through the interactive browser.
func collectImages(arg string) ([]string, error) {
	start := mover.ExpandPath(arg)
	if start == "" {
		start = mover.ExpandPath("~")
	}

	info, err := os.Stat(start)
	switch {
	case err != nil:
		return nil, fmt.Errorf("invalid path: %s", start)
	case !info.IsDir():
		if !mover.IsImagePath(start) {
			return nil, fmt.Errorf("not an image file: %s", start)
		}
		if abs, err := filepath.Abs(start); err == nil {
			start = abs
		}
		return []string{start}, nil
	}

	fmt.Println("\nBrowse and select images (TAB to multi-select, ESC when done)")
	images, err := ui.NewBrowser(start).Run()
	if errors.Is(err, ui.ErrInterrupted) {
		return nil, nil
	}
	return images, err
}

func printHistory(h *mover.History) {
	entries := h.Recent(10)
	if len(entries) == 0 {
		fmt.Println("No operations in history")
		return
	}
	fmt.Printf("Recent operations (%d of %d):\n", len(entries), h.Len())
	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Printf("  %2d. %s\n", len(entries)-i, entries[i].Format())
	}
	fmt.Println("\nRun omarchy-mover -undo to revert the newest, or -undo-index N for entry N.")
}

// runAnalyze prints the info block the fzf preview pane shows for one file.
func runAnalyze(path string, settings mover.Settings) int {
	fmt.Println("File:", filepath.Base(path))
	if info, err := mover.ReadImageInfo(path); err == nil {
		fmt.Printf("%dx%d | %s | %s\n",
			info.Width, info.Height, strings.ToUpper(info.Format), mover.FormatSize(info.Size))
	}

	cfg := &mover.Config{
		Palette: settings.Palette(),
		Learner: mover.NewLearner(mover.NewFileStore("")),
	}
	d := cfg.Decide(path)
	if d == nil {
		fmt.Println("Theme: unknown")
		return 1
	}

	note := ""
	if d.Learned {
		note = " (learned)"
	}
	fmt.Printf("Theme: %s %s%s | %s dist %.1f\n",
		d.Analysis.Confidence.Symbol(), d.Theme, note, d.Analysis.Color, d.Analysis.Distance)
	return 0
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "omarchy-mover - sort wallpapers into Omarchy theme directories")
	fmt.Fprintf(out, "\nUsage:\n  %s [options] [path]\n\n", filepath.Base(os.Args[0]))
	fmt.Fprintln(out, "A path can be a directory to browse or a single image file.")
	fmt.Fprintln(out, "\nOptions:")
	flag.PrintDefaults()
	fmt.Fprintln(out, `
Examples:
  omarchy-mover                          browse ~ and sort interactively
  omarchy-mover -auto ~/Pictures         auto-detect themes under ~/Pictures
  omarchy-mover -manual wallpaper.png    pick the theme for one file
  omarchy-mover -copy -dry-run ~/dl      preview copies without writing
  omarchy-mover -rename '{theme}_{date}' -auto ~/dl
  omarchy-mover -undo                    put the last file back`)
}
