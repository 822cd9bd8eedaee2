package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/focusrelay/focusd/internal/config"
	"github.com/focusrelay/focusd/internal/dispatch"
	"github.com/focusrelay/focusd/internal/hook"
	"github.com/focusrelay/focusd/internal/listener"
	"github.com/focusrelay/focusd/internal/proc"
	"github.com/focusrelay/focusd/internal/relay"
	"github.com/focusrelay/focusd/internal/state"
)

func main() {
	mockMode := flag.Bool("mock", false, "Use simulated focus events instead of the OS hook")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	pid := flag.Uint("pid", 0, "Override watched process id (0 = any process)")
	procName := flag.String("process", "", "Override watched process name")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *pid > 0 {
		cfg.Watch.PID = uint32(*pid)
	}
	if *procName != "" {
		cfg.Watch.Process = *procName
	}

	// Resolve a configured process name to a PID for the hook filter.
	watchPID := cfg.Watch.PID
	if watchPID == 0 && cfg.Watch.Process != "" {
		watchPID, err = proc.FindByName(cfg.Watch.Process)
		if err != nil {
			log.Fatalf("Failed to resolve watched process: %v", err)
		}
	}

	var watch *proc.Info
	if watchPID != 0 {
		info := proc.Describe(watchPID)
		watch = &info
		log.Printf("Watching process %d (%s)", info.PID, info.Name)
	} else {
		log.Println("Watching all processes")
	}

	store := state.NewStore(cfg.Relay.History)
	broadcaster := relay.NewBroadcaster(store, watch, cfg.Relay.BroadcastThrottle, cfg.Relay.SnapshotInterval)

	var hooker hook.Hooker
	if *mockMode {
		log.Println("Starting in mock mode (simulated focus events)")
		hooker = &hook.Simulator{Interval: 2 * time.Second}
	} else {
		hooker = hook.System()
	}

	// The dispatch queue is the daemon's callback-execution context: every
	// focus callback runs serially on its goroutine.
	queue := dispatch.NewQueue()

	l := listener.New(hooker, queue)
	l.Start(watchPID, func(windowID string) (string, error) {
		f := store.Record(windowID, time.Now())
		broadcaster.QueueFocus(f)
		return strconv.FormatUint(f.Seq, 10), nil
	})

	server := relay.NewServer(store, broadcaster, cfg.Server.Token)
	mux := http.NewServeMux()
	server.SetupRoutes(mux)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		l.Stop()
		queue.Close()
		os.Exit(0)
	}()

	if err := relay.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
