package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/tavern/internal/api"
	"github.com/nhle/tavern/internal/app"
	"github.com/nhle/tavern/internal/credential"
	"github.com/nhle/tavern/internal/guard"
	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/notify"
	"github.com/nhle/tavern/internal/router"
	"github.com/nhle/tavern/internal/session"
	"github.com/nhle/tavern/internal/store"
	"github.com/nhle/tavern/internal/token"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config.yaml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := tea.LogToFile(cfg.Log.File, "tavern")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	creds, err := openCredentials(cfg, db)
	if err != nil {
		return err
	}

	var p *tea.Program
	send := func(msg tea.Msg) {
		if p != nil {
			p.Send(msg)
		}
	}

	tokens := token.NewManager(creds, time.Now)
	queue := notify.New(notify.WithDefaultDuration(
		time.Duration(cfg.Notify.DefaultDurationMS) * time.Millisecond,
	))
	defer queue.Close()

	client := api.NewClient(cfg.API.BaseURL, tokens, queue,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithHardRedirect(func(string) { send(app.ResetMsg{}) }),
	)

	r := router.New(router.DefaultRoutes())
	r.BeforeEach(guard.New(tokens, func(title string) { send(app.TitleMsg(title)) }).Check)
	r.OnChange(func(to, _ router.Location) { send(app.NavigatedMsg{To: to}) })
	client.SetNavigator(r)

	watcher := session.New(r, time.Duration(cfg.Session.CheckIntervalSec)*time.Second)
	defer watcher.Stop()

	p = tea.NewProgram(app.New(app.Deps{
		Config:     cfg,
		ConfigPath: configPath,
		Client:     client,
		Router:     r,
		Tokens:     tokens,
		Creds:      creds,
		Queue:      queue,
		Watcher:    watcher,
	}), tea.WithAltScreen())

	log.Printf("main: starting against %s", cfg.API.BaseURL)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// openCredentials returns the credential store selected by the config.
func openCredentials(cfg *model.AppConfig, db *store.SQLiteStore) (credential.Store, error) {
	if cfg.Credential.Backend != model.CredentialBackendKeyring {
		return credential.NewKVStore(db), nil
	}

	ring, err := credential.OpenKeyring(cfg.Credential.KeyringDir)
	if err != nil {
		return nil, err
	}
	return credential.NewKeyringStore(ring), nil
}
