package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/varunkk24/portfolio/internal/admin"
	"github.com/varunkk24/portfolio/internal/analytics"
	"github.com/varunkk24/portfolio/internal/contact"
	"github.com/varunkk24/portfolio/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		gin.SetMode(cfg.Mode)

		store, err := loadContent(cfg)
		if err != nil {
			return err
		}

		var deps server.Deps
		if cfg.Analytics.Enabled {
			db, err := analytics.Open(cfg.Analytics.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			deps.Tracker = analytics.NewTracker(db, cfg.Analytics.Salt)
			log.Printf("Privacy: Visitor tracking enabled with hashed IP addresses (%s)", db.Path())
			go func() {
				if _, err := deps.Tracker.Cleanup(context.Background()); err != nil {
					log.Printf("Error cleaning up old visitor data: %v", err)
				}
			}()

			if cfg.AdminEnabled() {
				deps.Admin = admin.New(deps.Tracker, admin.Credentials{
					Username: cfg.Admin.Username,
					Password: cfg.Admin.Password,
				})
			}
		}

		if cfg.SMTP.Enabled() {
			smtpCfg := cfg.SMTP
			if smtpCfg.To == "" {
				smtpCfg.To = cfg.Recipient
			}
			deps.Mailer = contact.NewMailer(smtpCfg)
			log.Printf("Contact relay enabled via %s", smtpCfg.Host)
		}

		srv, err := server.New(server.Config{
			Port:      cfg.Port,
			StaticDir: cfg.StaticDir,
			ImagesDir: cfg.ImagesDir,
			Recipient: cfg.Recipient,
		}, store, deps)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-stop:
			log.Println("Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
