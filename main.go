package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime/pprof"

	"github.com/datatug/pngnote/pkg/book"
	"github.com/datatug/pngnote/pkg/booklist"
	"github.com/datatug/pngnote/pkg/files/storeurl"
	"github.com/datatug/pngnote/pkg/logging"
	"github.com/datatug/pngnote/pkg/pngnote"
	"github.com/datatug/pngnote/pkg/pngnote/navigator"
	"github.com/datatug/pngnote/pkg/profiling"
	"github.com/datatug/pngnote/pkg/settings"
	"github.com/datatug/pngnote/pkg/thumbs"
	"github.com/rivo/tview"
	"golang.org/x/term"
)

var (
	rootLocation = flag.String("root", "", "open root `location` instead of the last used one")
	settingsFile = flag.String("settings", "", "settings `file` (default ~/.pngnote/pngnote-settings.yaml)")
	logFile      = flag.String("log", "", "append logs to `file` (default: stderr unless it is a terminal)")
	cpuProfile   = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memProfile   = flag.String("memprofile", "", "write memory profile to `file`")
	pprofAddr    = flag.String("pprof", "", "start pprof http server on `address` (e.g. localhost:6060)")
)

var httpListenAndServe = http.ListenAndServe
var osExit = os.Exit
var osOpenFile = os.OpenFile
var pprofStopCPUProfile = pprof.StopCPUProfile

func main() {
	app, cleanup := newPngNoteApp()
	defer cleanup()
	run(app)
}

// newPngNoteApp parses flags and wires the application. The returned cleanup
// stops profiling and background work.
func newPngNoteApp() (app *tview.Application, cleanup func()) {
	flag.Parse()

	var cleanups []func()
	cleanup = func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	logOut, closeLog := logWriter(*logFile)
	logging.Init(logOut)
	cleanups = append(cleanups, closeLog)
	log := logging.New("main")

	if *pprofAddr != "" {
		go func() {
			if err := httpListenAndServe(*pprofAddr, nil); err != nil {
				log.Error("pprof server error", "error", err)
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n", r)
			pprofStopCPUProfile()
			osExit(1)
		}
	}()

	if *cpuProfile != "" {
		cleanups = append(cleanups, profiling.DoCPUProfiling(*cpuProfile))
	}
	if *memProfile != "" {
		cleanups = append(cleanups, profiling.DoMemProfiling(*memProfile))
	}

	settingsPath := *settingsFile
	if settingsPath == "" {
		var err error
		if settingsPath, err = settings.DefaultPath(); err != nil {
			log.Warn("user home directory is unknown", "error", err)
		}
	}

	app = newApp()
	ui, model := setupApp(app, settings.NewManager(settings.YAMLFileStorage{Path: settingsPath}))
	cleanups = append(cleanups, model.Close)
	if *rootLocation != "" {
		ui.OpenRoot(*rootLocation)
	} else {
		ui.Start()
	}
	return app, cleanup
}

var stderrIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// logWriter picks the log destination. Without a usable -log file, records
// go to stderr only when stderr is not the terminal the UI draws on.
func logWriter(file string) (w io.Writer, closeLog func()) {
	if file != "" {
		f, err := osOpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			return f, func() { _ = f.Close() }
		}
		_, _ = fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
	}
	if stderrIsTerminal() {
		return io.Discard, func() {}
	}
	return os.Stderr, func() {}
}

var newApp = tview.NewApplication

// setupApp builds the screens on app.
var setupApp = func(app *tview.Application, s *settings.Manager) (*pngnote.PngNote, *booklist.Model) {
	var ui *pngnote.PngNote
	notifier := booklist.NotifierFunc(func(msg string) {
		ui.Notify(msg)
	})
	loader := thumbs.NewLoader(nil)
	model := booklist.NewModel(s, storeurl.Open, loader,
		booklist.WithNotifier(notifier),
		booklist.WithAccessCheck(),
	)
	ui = pngnote.New(context.Background(), navigator.NewApp(app), pngnote.Deps{
		Settings: s,
		Model:    model,
		Resolver: book.NewResolver(),
		Loader:   loader,
	})
	app.SetRoot(ui, true).EnableMouse(true)
	return ui, model
}

type application interface{ Run() error }

var run = func(app application) {
	if err := app.Run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
