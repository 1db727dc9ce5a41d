package cmd

import (
	"context"
	"fmt"

	"github.com/guilhermegouw/chatdesk/internal/config"
	"github.com/guilhermegouw/chatdesk/internal/db"
	"github.com/guilhermegouw/chatdesk/internal/message"
	"github.com/guilhermegouw/chatdesk/internal/session"
	"github.com/guilhermegouw/chatdesk/internal/topic"
)

// app holds the stores shared by the TUI and the topic commands.
type app struct {
	cfg       *config.Config
	db        *db.DB
	topics    *topic.SQLiteStore
	messages  *message.Service
	assistant *topic.Assistant
}

// openApp opens the database and loads the default assistant.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	topics := topic.NewSQLiteStore(database)
	settings := cfg.Assistant()
	assistant, err := session.LoadAssistant(ctx, topics, settings.Name, settings.Prompt)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		db:        database,
		topics:    topics,
		messages:  message.NewService(message.NewSQLiteStore(database)),
		assistant: assistant,
	}, nil
}

// session creates a coordinator persisting to the app's stores.
func (a *app) session(opts ...session.Option) *session.Service {
	base := []session.Option{
		session.WithStore(a.topics),
		session.WithMessages(a.messages),
		session.WithGateSubmissions(a.cfg.GateSubmissions()),
	}
	return session.NewService(a.assistant, append(base, opts...)...)
}

func (a *app) Close() error {
	return a.db.Close()
}
