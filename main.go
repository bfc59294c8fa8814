package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reckey/hook"
	"reckey/hotkey"
	"reckey/log"
)

var version = "dev"

func run() {
	configFlag := flag.String("config", "", "Path to TOML config file")
	holdFlag := flag.String("hold", "", "Hold-to-record hotkey (e.g. ctrl+win)")
	toggleFlag := flag.String("toggle", "", "Press-to-toggle hotkey (e.g. ctrl+shift+win)")
	toggleEnabledFlag := flag.Bool("toggle-enabled", false, "Enable the toggle hotkey")
	logPathFlag := flag.String("logpath", "", "Log directory path (default: OS-specific location, empty with -console for stderr)")
	consoleFlag := flag.Bool("console", false, "Log to stderr instead of a file")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run hook diagnostics and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("reckey %s\n", version)
		os.Exit(0)
	}

	if *doctorFlag {
		msg, err := hook.Diagnose()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(msg)
		os.Exit(0)
	}

	if !*consoleFlag {
		logPath, err := log.ResolveDir(*logPathFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
			os.Exit(1)
		}
		log.SetDir(logPath)
	}
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.SetDebug(*debugFlag)

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *holdFlag != "" {
		cfg.Hold.Spec = *holdFlag
	}
	if *toggleFlag != "" {
		cfg.Toggle.Spec = *toggleFlag
	}
	if *toggleEnabledFlag {
		cfg.Toggle.Enabled = true
	}

	if ok, reason := hotkey.Validate(cfg.Hold.Spec); !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid hold hotkey %q: %s\n", cfg.Hold.Spec, reason)
		os.Exit(1)
	}
	if cfg.Toggle.Enabled {
		if ok, reason := hotkey.Validate(cfg.Toggle.Spec); !ok {
			fmt.Fprintf(os.Stderr, "Error: invalid toggle hotkey %q: %s\n", cfg.Toggle.Spec, reason)
			os.Exit(1)
		}
		if hotkey.Conflicts(cfg.Hold.Spec, cfg.Toggle.Spec) {
			fmt.Fprintf(os.Stderr, "Error: hold and toggle hotkeys conflict (%q)\n", hotkey.Normalize(cfg.Hold.Spec))
			os.Exit(1)
		}
	}

	svc := hotkey.NewService(hook.New())
	svc.SetCallbacks(
		func() { log.Infof("recording started (%s mode)", svc.ActiveMode()) },
		func() { log.Info("recording stopped") },
	)
	svc.Configure(hotkey.ConfigUpdate{
		HoldSpec:      &cfg.Hold.Spec,
		HoldEnabled:   &cfg.Hold.Enabled,
		ToggleSpec:    &cfg.Toggle.Spec,
		ToggleEnabled: &cfg.Toggle.Enabled,
	})
	svc.Start()
	defer svc.Stop()

	log.Infof("reckey %s listening (hold: %s, toggle: %s enabled=%v)",
		version, hotkey.Normalize(cfg.Hold.Spec), hotkey.Normalize(cfg.Toggle.Spec), cfg.Toggle.Enabled)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
}
