// Command taskflow runs the TaskFlow terminal client.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mzurek/taskflow/internal/api"
	"github.com/mzurek/taskflow/internal/app"
	"github.com/mzurek/taskflow/internal/config"
	"github.com/mzurek/taskflow/internal/credential"
	"github.com/mzurek/taskflow/internal/notify"
	"github.com/mzurek/taskflow/internal/session"
	"github.com/mzurek/taskflow/internal/tasks"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Client.APIBaseURL)
	sess := session.New(client, credential.NewKeyringStore(), client.SetToken)

	center := notify.NewCenter()
	provider := tasks.NewProvider(client, center, sess)

	interval := time.Duration(cfg.Client.NotifyIntervalSec) * time.Second
	notifier := notify.NewDueNotifier(center, provider.Snapshot,
		notify.WithInterval(interval),
		notify.WithDedupe(cfg.Client.NotifyDedupe),
	)
	defer notifier.Stop()

	root := app.New(app.Deps{
		Session:  sess,
		Provider: provider,
		Center:   center,
		Notifier: notifier,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "running program: %v\n", err)
		os.Exit(1)
	}
}
