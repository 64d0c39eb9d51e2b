package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ety001/cryptotoken-converter/internal/app"
	"github.com/ety001/cryptotoken-converter/internal/watcher"
)

func main() {
	kingpinApp := kingpin.New("converter-watcher", "Alerts admins when hot wallet balances run low")
	envFile := kingpinApp.Flag("env-file", "Path to a .env file loaded before the environment is read").String()
	lockFile := kingpinApp.Flag("lockfile", "Path to lock file").Default("/tmp/cryptotoken-converter-watcher.lock").String()
	once := kingpinApp.Flag("once", "Check all wallets once and exit").Bool()
	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			panic(fmt.Sprintf("failed to load env file: %v", err))
		}
	}

	a, err := app.Bootstrap(app.Options{})
	if err != nil {
		panic(fmt.Sprintf("failed to load settings: %v", err))
	}
	logger := a.Logger
	defer func() {
		_ = logger.Sync()
	}()

	// Acquire file lock to prevent multiple instances
	lockFileHandle, err := acquireLock(*lockFile)
	if err != nil {
		logger.Fatal("failed to acquire lock, another watcher may be running", zap.Error(err))
	}
	defer releaseLock(lockFileHandle, *lockFile, logger)
	logger.Info("lock acquired", zap.String("lockfile", *lockFile))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storeCtx, storeCancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := a.NoticeStore(storeCtx)
	storeCancel()
	if err != nil {
		logger.Error("failed to open notice store", zap.Error(err))
		return
	}
	defer store.Close()

	notifier, err := a.LowFunds(store)
	if err != nil {
		logger.Error("failed to configure notifications", zap.Error(err))
		return
	}

	w := watcher.New(a.Settings.HandlerFile().Wallets, a.Handlers, notifier, a.Settings.Watcher.Interval, logger.Named("watcher"))
	if *once {
		for _, b := range w.CheckOnce(ctx) {
			logger.Info("wallet balance",
				zap.String("handler", b.Handler),
				zap.String("account", b.Account),
				zap.String("symbol", b.Symbol),
				zap.String("balance", b.Balance.String()))
		}
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Start(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("received signal", zap.String("signal", sig.String()))
		w.Stop()
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil {
			logger.Error("watcher error", zap.Error(err))
		}
	}

	logger.Info("watcher service stopped")
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func acquireLock(lockFilePath string) (*os.File, error) {
	lockDir := filepath.Dir(lockFilePath)
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	file, err := os.OpenFile(lockFilePath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	// Non-blocking exclusive lock
	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	// PID for debugging
	if err := file.Truncate(0); err == nil {
		_, _ = fmt.Fprintf(file, "%d\n", os.Getpid())
		_ = file.Sync()
	}

	return file, nil
}

// releaseLock releases the file lock
func releaseLock(file *os.File, lockFilePath string, logger *zap.Logger) {
	if file == nil {
		return
	}
	_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
	file.Close()
	os.Remove(lockFilePath)
	logger.Info("lock released", zap.String("lockfile", lockFilePath))
}
