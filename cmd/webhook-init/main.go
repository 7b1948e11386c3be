// webhook-init manages the bot's Telegram webhook registration from the
// command line: register it, inspect its state, or delete it.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"kassabot/internal/config"
	applog "kassabot/internal/log"
	"kassabot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	action := flag.String("action", "register", "one of: register, info, delete")
	dropPending := flag.Bool("drop-pending", false, "with -action=delete, also drop queued updates")
	flag.Parse()

	cfg := config.Load()
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	tg, err := telegram.New(cfg.TelegramToken, applog.New(applog.DefaultConfig()))
	if err != nil {
		log.Fatalf("create telegram client: %v", err)
	}

	switch *action {
	case "register":
		if cfg.WebhookBaseURL == "" {
			log.Fatal("WEBHOOK_BASE_URL is required to register the webhook")
		}
		if err := tg.RegisterWebhook(cfg.WebhookURL()); err != nil {
			log.Fatalf("register webhook: %v", err)
		}
		fmt.Println("webhook registered:", cfg.WebhookURL())

	case "info":
		info, err := tg.WebhookInfo()
		if err != nil {
			log.Fatalf("get webhook info: %v", err)
		}
		fmt.Println("url:            ", info.URL)
		fmt.Println("pending updates:", info.PendingUpdateCount)
		if info.LastErrorDate != 0 {
			fmt.Println("last error:     ", info.LastErrorMessage,
				"at", time.Unix(int64(info.LastErrorDate), 0).Format(time.RFC3339))
		}

	case "delete":
		if err := tg.DeleteWebhook(*dropPending); err != nil {
			log.Fatalf("delete webhook: %v", err)
		}
		fmt.Println("webhook deleted")

	default:
		fmt.Fprintf(os.Stderr, "unknown action %q\n", *action)
		flag.Usage()
		os.Exit(2)
	}
}
