package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ety001/cryptotoken-converter/internal/app"
	"github.com/ety001/cryptotoken-converter/internal/telegram"
)

func main() {
	kingpinApp := kingpin.New("converter-test-notify", "Sends a sample low-funds alert to the Telegram channel")
	envFile := kingpinApp.Flag("env-file", "Path to a .env file loaded before the environment is read").String()
	dryRun := kingpinApp.Flag("dry-run", "Print the message without sending it").Bool()
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

	message := telegram.FormatLowFundsMessage(telegram.LowFundsAlert{
		Handler:    "Steem",
		Coin:       "STEEM",
		Wallet:     "test-account",
		Balance:    "1.000",
		MinBalance: "100",
		Count:      1,
		Time:       time.Now(),
	})

	fmt.Println("\n=== Message Preview ===")
	fmt.Println(message)
	fmt.Println("======================")

	if *dryRun {
		return
	}

	client, err := a.Telegram()
	if err != nil {
		logger.Fatal("telegram is misconfigured", zap.Error(err))
	}
	if client == nil {
		logger.Fatal("telegram is not enabled, set TELEGRAM_ENABLED=true")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("sending test message", zap.String("channel", a.Settings.Telegram.ChannelID))
	if err := client.SendMessage(ctx, message); err != nil {
		logger.Fatal("failed to send message", zap.Error(err))
	}

	logger.Info("test message sent")
}
