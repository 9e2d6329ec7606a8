package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/lixenwraith/wobble-tower/audio"
	"github.com/lixenwraith/wobble-tower/config"
	"github.com/lixenwraith/wobble-tower/game"
	"github.com/lixenwraith/wobble-tower/parameter"
	"github.com/lixenwraith/wobble-tower/session"
	"github.com/lixenwraith/wobble-tower/trace"
)

var (
	configFlag = flag.String("config", "", "Path to a YAML tuning file")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/tower.log")
	traceFlag  = flag.String("trace", "", "Record a replay trace to this path")
	seedFlag   = flag.Uint64("seed", 0, "Override the spawner seed")
	dumpFlag   = flag.Bool("dump-config", false, "Print the effective tuning and exit")
)

func main() {
	flag.Parse()

	if f := setupLogging(*debugFlag); f != nil {
		defer f.Close()
	}

	tuning, err := loadTuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load tuning: %v\n", err)
		os.Exit(2)
	}

	if *dumpFlag {
		out, err := tuning.Encode()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode tuning: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, AttachStacktrace: true}); err != nil {
			log.Printf("sentry init failed: %v", err)
		} else {
			defer sentry.Flush(5 * time.Second)
		}
	}

	if addr := os.Getenv("TOWER_STATSVIEW"); addr != "" {
		// set configurations before calling statsview.New
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			crash(screen, r)
		}
	}()
	defer screen.Fini()

	g := game.New(tuning)

	sm := audio.NewSoundManager(audio.LoadConfig())
	if err := sm.Initialize(); err != nil {
		log.Printf("Audio initialization failed: %v (continuing without audio)", err)
	}
	defer sm.Cleanup()
	g.Router.Register(sm)

	var rec *trace.Recorder
	if *traceFlag != "" {
		f, err := os.Create(*traceFlag)
		if err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Failed to create trace: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		rec, err = trace.NewRecorder(f, g)
		if err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Failed to start trace: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("trace close: %v", err)
			}
			log.Printf("trace recorded %d ticks to %s", rec.Ticks(), *traceFlag)
		}()
	}

	run(screen, g, rec)
}

func loadTuning() (config.Tuning, error) {
	t := config.Default()
	if *configFlag != "" {
		var err error
		if t, err = config.Load(*configFlag); err != nil {
			return t, err
		}
	}
	if *seedFlag != 0 {
		t.Spawner.Seed = *seedFlag
	}
	return t, nil
}

func run(screen tcell.Screen, g *game.Game, rec *trace.Recorder) {
	ticker := time.NewTicker(parameter.TickInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				crash(screen, r)
			}
		}()
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	renderer := NewRenderer(screen)
	input := &InputHandler{}
	snap := g.Snapshot()
	loggedEnd := false

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch input.HandleKey(ev) {
				case ActionQuit:
					return
				case ActionPause:
					if g.Ctrl.Paused() {
						g.Ctrl.Resume()
					} else {
						g.Ctrl.Pause()
					}
				case ActionReset:
					log.Printf("session reset at tick %d (%s)", snap.Tick, snap.Outcome)
					g.Reset()
					input.Clear()
					loggedEnd = false
					if rec != nil {
						rec.MarkReset()
					}
					snap = g.Snapshot()
				case ActionMetrics:
					renderer.ToggleMetrics()
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			paused := g.Ctrl.Paused()
			if !paused {
				in := session.Input{Axis: input.Axis(parameter.TickInterval)}
				snap = g.Step(in, parameter.TickInterval)
				if rec != nil {
					if err := rec.Record(g, in, parameter.TickInterval); err != nil {
						log.Printf("trace record: %v", err)
					}
				}
			}

			if outcome, ended := g.Ended(); ended && !loggedEnd {
				log.Printf("session ended: %s with %d bodies after %d ticks", outcome, snap.Count, snap.Tick)
				loggedEnd = true
			}

			renderer.Draw(g, snap, paused)
		}
	}
}

// crash restores the terminal, reports r and exits
func crash(screen tcell.Screen, r any) {
	screen.Fini()

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "tower")
	})
	hub.Recover(r)
	hub.Flush(5 * time.Second)

	fmt.Fprintf(os.Stderr, "\n\x1b[31mTOWER CRASHED: %v\x1b[0m\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
	os.Exit(1)
}
