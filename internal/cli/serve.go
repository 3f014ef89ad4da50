package cli

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"task-management/internal/bot"
	httpapi "task-management/internal/http"
	"task-management/internal/service"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Telegram bot and the digest scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			defer a.Close()

			server := httpapi.NewApp(a.personas, a.tasks, httpapi.Options{
				AllowOrigins:    a.cfg.CORSOrigins,
				DefaultPageSize: a.cfg.DefaultPageSize,
			})

			if a.cfg.BotEnabled() {
				telegramBot, err := bot.New(a.cfg.TelegramToken, a.subscribers, a.personas, a.tasks, a.digest, a.cfg.DefaultPageSize)
				if err != nil {
					return err
				}

				scheduler := service.NewSchedulerService(time.Local)
				if _, err := scheduler.ScheduleDigest(a.cfg.ReportTime, a.cfg.ReportInterval, func() {
					jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
					defer cancel()
					if err := telegramBot.SendDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
						log.Printf("[warn] digest: %v", err)
					}
				}); err != nil {
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()

				go func() {
					if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Printf("[warn] bot stopped with error: %v", err)
					}
				}()
			} else {
				log.Println("[info] TELEGRAM_TOKEN not set, bot disabled")
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.ShutdownWithContext(shutdownCtx); err != nil {
					log.Printf("[warn] http shutdown: %v", err)
				}
			}()

			log.Printf("[info] task management listening on %s", a.cfg.HTTPAddr)
			if err := server.Listen(a.cfg.HTTPAddr); err != nil {
				return err
			}
			log.Println("[info] shutdown complete")
			return nil
		},
	}
}
