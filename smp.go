// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"time"

	"github.com/spf13/viper"
	"github.com/vidyamurthy/SimpleMusicPlayer/history"
	"github.com/vidyamurthy/SimpleMusicPlayer/library"
	"github.com/vidyamurthy/SimpleMusicPlayer/logger"
	"github.com/vidyamurthy/SimpleMusicPlayer/mpvplayer"
	"github.com/vidyamurthy/SimpleMusicPlayer/player"
	"github.com/vidyamurthy/SimpleMusicPlayer/remote"
	"github.com/vidyamurthy/SimpleMusicPlayer/resume"
	"golang.org/x/term"
)

var osExit = os.Exit  // A variable to allow mocking os.Exit in tests
var headlessMode bool // This can be set to true during tests
var testMode bool     // This can be set to true during tests, too

const DEVELOPMENT = "development"

const clientName = "smp"

// Version is the program version; usually set from BuildInfo
var Version string = DEVELOPMENT

// return codes:
// 0 - OK
// 1 - generic errors (mpv, dbus, http, history db)
// 2 - config or library errors
func main() {
	help := flag.Bool("help", false, "Print usage")
	enableMpris := flag.Bool("mpris", false, "Enable MPRIS2")
	httpAddr := flag.String("http", "", "serve the HTTP remote on `addr`, e.g. :8787 (overrides http.listen)")
	list := flag.Bool("list", false, "list the library with metadata and exit")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")
	configFile := flag.String("config", "", "use config `file`")
	version := flag.Bool("version", false, "print the smp version and exit")

	flag.Parse()
	if *help {
		fmt.Printf("USAGE: %s <args> [file or directory ...]\n", os.Args[0])
		flag.Usage()
		osExit(0)
		return
	}
	if Version == DEVELOPMENT {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
			Version = bi.Main.Version
		}
	}
	if *version {
		fmt.Printf("%s %s\n", clientName, Version)
		osExit(0)
		return
	}

	// cpu/memprofile code straight from https://pkg.go.dev/runtime/pprof
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if err := readConfig(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read configuration from file '%s': %v\n", *configFile, err)
		osExit(2)
		return
	}

	logger := logger.Init()
	initCommandHandler(logger)

	tracks, missing, err := library.Load(library.Options{
		Dir:   expandPath(viper.GetString("library.dir")),
		Names: viper.GetStringSlice("library.tracks"),
		Args:  flag.Args(),
	})
	for _, name := range missing {
		fmt.Fprintf(os.Stderr, "No file for track %q\n", name)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", library.Issue(err))
		osExit(2)
		return
	}

	var store *history.Store
	if db := expandPath(viper.GetString("history.db")); db != "" {
		store, err = history.Open(db)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to open play history: %s\n", err)
			osExit(1)
			return
		}
		defer store.Close()
	}

	if *list {
		logger.DrainTo(os.Stderr)
		if err := listLibrary(os.Stdout, tracks, store, term.IsTerminal(int(os.Stdout.Fd()))); err != nil {
			fmt.Fprintf(os.Stderr, "Error listing library: %s\n", err)
			osExit(1)
			return
		}
		osExit(0)
		return
	}

	selector, err := player.NewSelector(viper.GetString("playback.order"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config property playback.order: %s\n", err)
		osExit(2)
		return
	}

	engine, err := mpvplayer.NewEngine(logger)
	if err != nil {
		fmt.Println("Unable to initialize mpv. Is mpv installed?")
		osExit(1)
		return
	}

	musicPlayer := player.New(engine, selector, tracks, logger)
	defer musicPlayer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go engine.EventLoop()
	go musicPlayer.Run(ctx)

	volume := viper.GetInt("playback.volume")
	stateFile := expandPath(viper.GetString("state.file"))
	if viper.GetBool("playback.resume") && stateFile != "" {
		session, ok, err := resume.Load(stateFile)
		if err != nil {
			logger.PrintError("resume", err)
		} else if ok {
			volume = startVolume(volume, session)
			if err := musicPlayer.Restore(session.Path, session.Position); err != nil {
				logger.PrintError("resume", err)
			}
		}
	}
	if err := musicPlayer.SetVolume(volume); err != nil {
		logger.PrintError("SetVolume", err)
	}

	listen := viper.GetString("http.listen")
	if *httpAddr != "" {
		listen = *httpAddr
	}

	var mprisPlayer *remote.MprisPlayer
	// init mpris2 player control (linux only but fails gracefully on other systems)
	if *enableMpris {
		artURL := ""
		if listen != "" {
			artURL = localURL(listen)
		}
		mprisPlayer, err = remote.RegisterMprisPlayer(musicPlayer, artURL, logger)
		if err != nil {
			fmt.Printf("Unable to register MPRIS with DBUS: %s\n", err)
			fmt.Println("Try running without MPRIS")
			osExit(1)
			return
		}
		defer mprisPlayer.Close()
	}

	if testMode {
		fmt.Println("Running in test mode for testing.")
		osExit(0x23420001)
		return
	}

	if viper.GetBool("library.watch") && len(flag.Args()) == 0 && len(viper.GetStringSlice("library.tracks")) == 0 {
		go func() {
			if err := library.Watch(ctx, expandPath(viper.GetString("library.dir")), logger, musicPlayer.SetTracks); err != nil {
				logger.PrintError("library.Watch", err)
			}
		}()
	}

	if headlessMode {
		fmt.Println("Running in headless mode for testing.")
		osExit(0)
		return
	}

	var httpServer *remote.HttpServer
	if listen != "" {
		httpServer = remote.NewHttpServer(musicPlayer, viper.GetStringSlice("http.cors-origins"), Version, logger)
		go func() {
			if err := httpServer.ListenAndServe(listen); err != nil {
				logger.PrintError("http", err)
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
			defer stop()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("http shutdown: %s", err)
			}
		}()
	}

	ui := InitGui(musicPlayer, logger, guiOptions{
		ArtworkCacheSize: viper.GetInt("ui.artwork-cache"),
		StateFile:        stateFile,
		History:          store,
		HttpServer:       httpServer,
	})

	// run main loop
	if err := ui.Run(); err != nil {
		panic(err)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			log.Fatal("could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}

// localURL turns a listen address like ":8787" into a URL clients on this
// machine can reach.
func localURL(listen string) string {
	if len(listen) > 0 && listen[0] == ':' {
		return "http://localhost" + listen
	}
	return "http://" + listen
}

// startVolume prefers the volume of a resumed session over the configured one.
func startVolume(configured int, session resume.Session) int {
	if saved, ok := session.SavedVolume(); ok {
		return saved
	}
	return configured
}
