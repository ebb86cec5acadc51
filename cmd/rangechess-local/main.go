package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"rangechess/internal/config"
	"rangechess/internal/engine"
	"rangechess/internal/server/game"
	httpserver "rangechess/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 不阻塞，不关心错误（某些服务器环境可能无图形界面）
}

func loadConfig(path string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.InitConfig()
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func main() {
	cfgPath := flag.String("config", "", "config file (default: $XDG_CONFIG_HOME/rangechess/config.json)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	webDir := flag.String("web", "", "directory with index.html / js (overrides config)")
	strategy := flag.String("strategy", "", "AI strategy: negamax or rollout (overrides config)")
	depth := flag.Int("depth", -1, "max search depth, 0 = until time runs out (overrides config)")
	verbose := flag.Bool("v", false, "log search progress")
	noBrowser := flag.Bool("no-browser", false, "do not open the browser")
	save := flag.Bool("save-config", false, "write the effective config back to the user config dir")
	flag.Parse()

	cfg := loadConfig(*cfgPath)
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *webDir != "" {
		cfg.WebDir = *webDir
	}
	if *strategy != "" {
		cfg.AI.Strategy = *strategy
	}
	if *depth >= 0 {
		cfg.AI.MaxDepth = *depth
	}
	if *verbose {
		cfg.AI.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if *save {
		if err := cfg.Save(); err != nil {
			log.Printf("save config failed: %v", err)
		}
	}

	total, _ := cfg.TotalTime()
	inc, _ := cfg.IncrementTime()
	settings := httpserver.Settings{
		Total:     total,
		Increment: inc,
		AI: game.AIOptions{
			Strategy: game.Strategy(cfg.AI.Strategy),
			MaxDepth: cfg.AI.MaxDepth,
			Parallel: cfg.AI.Parallel,
			Rollout: engine.RolloutConfig{
				Depth:    cfg.AI.RolloutDepth,
				Count:    cfg.AI.RolloutCount,
				Seed:     cfg.AI.RolloutSeed,
				Parallel: cfg.AI.Parallel,
			},
		},
	}

	eng := engine.NewEngine()
	eng.Verbose = cfg.AI.Verbose
	eng.SetLogger(log.New(os.Stderr, "[engine] ", log.LstdFlags))
	h := httpserver.NewHandler(game.NewManager(), eng, settings)

	web := ""
	if dir, err := config.ResolveDir(cfg.WebDir); err == nil {
		web = dir
	} else {
		log.Printf("static files disabled: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Hub().Run(ctx.Done())

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpserver.NewRouter(h, web),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	log.Printf("listening on %s, serving static from %q, strategy %s", cfg.Addr, web, cfg.AI.Strategy)

	if !*noBrowser && web != "" {
		// 延迟 100ms 打开默认浏览器，否则可能服务器未启动完成
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://" + browserHost(cfg.Addr) + "/")
		}()
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	select {
	case <-sigCtx.Done():
		log.Printf("shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			log.Printf("server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// ":8080" 这种只有端口的地址，浏览器要补上 127.0.0.1
func browserHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	return addr
}
