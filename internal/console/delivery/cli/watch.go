package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"toolwatch/internal/console/aggregator"
	"toolwatch/pkg/logger"
	"toolwatch/pkg/telegram"
	"toolwatch/pkg/utils"
)

const defaultWatchInterval = 10 * time.Second

func newWatchCommand() *cobra.Command {
	var (
		interval string
		limit    int
		search   string
		status   string
		tool     string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the platform API and re-render the log until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := newConsole()
			if err != nil {
				return err
			}
			defer con.close()

			criteria, err := buildCriteria(search, status, tool)
			if err != nil {
				return err
			}
			con.agg.SetCriteria(criteria)

			if interval == "" {
				interval = con.cfg.Watch.Interval
			}
			tickEvery := defaultWatchInterval
			if interval != "" {
				tickEvery, err = time.ParseDuration(interval)
				if err != nil {
					return err
				}
			}
			if limit <= 0 {
				limit = con.cfg.Watch.FetchLimit
			}

			var notifier telegram.Notifier
			if con.cfg.Telegram.BotToken != "" {
				notifier, err = telegram.NewClient(con.cfg.Telegram.BotToken, con.cfg.Telegram.ChatID)
				if err != nil {
					con.log.Warn("Telegram notifier disabled", logger.ErrorField(err))
					notifier = nil
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &watcher{
				con:       con,
				notifier:  notifier,
				limit:     limit,
				threshold: con.cfg.Watch.AlertFailureRatePercent,
			}

			pterm.Info.Printfln("Watching executions every %s, press Ctrl+C to stop.", tickEvery)
			w.refresh(ctx)

			ticker := time.NewTicker(tickEvery)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					pterm.Println()
					pterm.Info.Println("Watch stopped.")
					return nil
				case <-ticker.C:
					w.refresh(ctx)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&interval, "interval", "i", "", "Poll interval, defaults to the configured one")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum records to fetch, defaults to the configured one")
	addFilterFlags(cmd, &search, &status, &tool)

	return cmd
}

// watcher holds the state carried between ticks.
type watcher struct {
	con       *console
	notifier  telegram.Notifier
	limit     int
	threshold int
	alerted   bool
}

// refresh fetches once and re-renders. Fetch failures keep the previous
// snapshot on screen; stale responses are skipped silently.
func (w *watcher) refresh(ctx context.Context) {
	if err := w.con.agg.Fetch(ctx, w.limit); err != nil {
		if errors.Is(err, aggregator.ErrFetchSuperseded) || errors.Is(err, context.Canceled) {
			return
		}
		pterm.Error.Printfln("Fetch failed, keeping previous snapshot: %v", err)
		return
	}

	stats := w.con.agg.Statistics()

	pterm.Println()
	renderStats(stats)
	if err := renderRecordsTable(w.con.agg.Filtered()); err != nil {
		w.con.log.Error("Failed to render table", logger.ErrorField(err))
	}

	w.checkThreshold(stats)
}

// checkThreshold sends one alert when the failure rate crosses the
// configured threshold and re-arms once it drops back below.
func (w *watcher) checkThreshold(stats aggregator.Statistics) {
	if w.threshold <= 0 || w.notifier == nil {
		return
	}

	if stats.FailureRatePercent >= w.threshold {
		if w.alerted {
			return
		}
		w.alerted = true
		msg := telegram.FormatFailureRateAlertMessage(stats.FailureRatePercent, w.threshold, stats.Total, stats.FailureCount, time.Now())
		log := w.con.log
		utils.GoSafe(func() {
			if err := w.notifier.SendMessage(msg); err != nil {
				log.Error("Failed to send failure rate alert", logger.ErrorField(err))
			}
		})
		return
	}

	w.alerted = false
}
