package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"timeclock/internal/bot"
	"timeclock/internal/config"
	"timeclock/internal/handler"
	"timeclock/internal/repository"
	"timeclock/internal/service"
	"timeclock/internal/storage"
	"timeclock/pkg/telegram"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "timeclock",
		Short:         "Employee time tracking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newReportCmd())
	return root
}

type services struct {
	db        *gorm.DB
	employees *service.EmployeeService
	records   *service.TimeRecordService
	reports   *service.ReportService
}

func buildServices(cfg *config.AppConfig) (*services, error) {
	db, err := storage.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	if err != nil {
		return nil, fmt.Errorf("create employee repository: %w", err)
	}

	timeRecordRepo, err := repository.NewGormTimeRecordRepository(db)
	if err != nil {
		return nil, fmt.Errorf("create time record repository: %w", err)
	}

	return &services{
		db:        db,
		employees: service.NewEmployeeService(employeeRepo),
		records:   service.NewTimeRecordService(timeRecordRepo, service.WithLocation(cfg.Location)),
		reports:   service.NewReportService(timeRecordRepo, employeeRepo, cfg.Location),
	}, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the Telegram bot when configured)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logrus.Info("Initializing config...")
			cfg := config.GetAppConfig()
			logrus.SetLevel(cfg.LogLevel)
			logrus.Info("Config initialized...")

			svc, err := buildServices(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := storage.Close(svc.db); err != nil {
					logrus.Infof("Error closing database: %v", err)
				}
			}()

			gin.SetMode(cfg.GinMode)
			h := handler.NewHandler(svc.employees, svc.records, svc.reports, cfg)
			srv := &http.Server{
				Addr:              ":" + cfg.HTTPPort,
				Handler:           h.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			var client *telegram.Client
			if cfg.BotEnabled() {
				client, err = telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
				if err != nil {
					return fmt.Errorf("create telegram client: %w", err)
				}
				logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

				botHandler := bot.NewHandler(client.Bot, svc.employees, svc.records, svc.reports)
				go botHandler.HandleUpdates(client.Updates())
			}

			serverErr := make(chan error, 1)
			go func() {
				logrus.Infof("HTTP server listening on %s", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-serverErr:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
			case <-stop:
			}

			if client != nil {
				client.Stop()
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}

			logrus.Info("Server stopped gracefully")
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var start, end, employeeID, out string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write the time report spreadsheet to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetAppConfig()
			logrus.SetLevel(cfg.LogLevel)

			svc, err := buildServices(cfg)
			if err != nil {
				return err
			}
			defer storage.Close(svc.db)

			report, err := svc.reports.Generate(cmd.Context(), service.ReportRequest{
				StartDate:  start,
				EndDate:    end,
				EmployeeID: employeeID,
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = report.Filename
			}
			if err := os.WriteFile(out, report.Content, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d record(s) written to %s\n", len(report.Rows), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&employeeID, "employee", "", "restrict the report to one employee id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: suggested filename)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
