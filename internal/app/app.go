// Package app assembles the services from configuration so the HTTP server
// and the command line tools share one wiring.
package app

import (
	"context"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/agent"
	"github.com/samyuktha-jana/SAP-hackathon/internal/booking"
	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/events"
	"github.com/samyuktha-jana/SAP-hackathon/internal/importer"
	"github.com/samyuktha-jana/SAP-hackathon/internal/llm"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mailer"
	"github.com/samyuktha-jana/SAP-hackathon/internal/mentor"
	"github.com/samyuktha-jana/SAP-hackathon/internal/notification"
	"github.com/samyuktha-jana/SAP-hackathon/internal/progress"
	"github.com/samyuktha-jana/SAP-hackathon/internal/skillgap"
	"github.com/samyuktha-jana/SAP-hackathon/internal/ticket"

	"gorm.io/gorm"
)

type App struct {
	Cfg *config.Config
	Log logger.ILogger
	DB  *gorm.DB
	Bus *events.Bus

	Mentors       *mentor.Service
	Sessions      *booking.Service
	Notifications *notification.Service
	Tickets       *ticket.Service
	Progress      *progress.Service
	Learning      *skillgap.Service
	Importer      *importer.Importer
	Tools         *agent.Toolbox
	Chat          *agent.Chat
}

// New wires every service. Without a Gemini API key the mentor search
// stays on SQL matching and plan generation reports it is not configured.
func New(cfg *config.Config, log logger.ILogger, db *gorm.DB) (*App, error) {
	a := &App{Cfg: cfg, Log: log, DB: db}
	a.Bus = events.NewBus(cfg.Events, log)

	var (
		chat llm.ChatModel
		emb  llm.Embedder
	)
	if cfg.Gemini.APIKey != "" {
		g := llm.NewGemini(cfg.Gemini)
		chat, emb = g, g
	} else {
		log.Warn("app", "GOOGLE_API_KEY not set, assistant features are limited", nil)
	}

	a.Mentors = mentor.NewService(db, emb, cfg.Mentor, log)
	a.Sessions = booking.NewService(db, cfg.Invites.Dir, a.Bus, log)
	a.Notifications = notification.NewService(db)
	a.Tickets = ticket.NewService(db, a.Bus, log)
	a.Progress = progress.NewService(db, cfg.Progress.CSVDir, log)
	a.Learning = skillgap.NewService(db, chat, log)
	a.Importer = importer.New(db, log)
	a.Tools = agent.NewToolbox(a.Mentors, a.Sessions)

	if chat != nil {
		onb, err := agent.LoadOnboarding(chat, cfg.Onboarding.EmployeeCSV, cfg.Onboarding.OfficeCSV)
		if err != nil {
			return nil, err
		}
		a.Chat = agent.NewChat(db, agent.NewMentorAgent(chat, a.Tools), onb, a.Tickets, a.Sessions, a.Progress, log)
	} else {
		a.Chat = agent.NewChat(db, agent.NewMentorAgent(noModel{}, a.Tools), nil, a.Tickets, a.Sessions, a.Progress, log)
	}
	return a, nil
}

// Start runs the background parts: event subscribers and the session
// completion sweep. They stop when ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if a.Cfg.Mail.Enabled {
		if err := events.RegisterInviteMailer(ctx, a.Bus, mailer.New(a.Cfg.Mail), a.Log); err != nil {
			return err
		}
	}
	if err := events.RegisterTicketNotifier(ctx, a.Bus, a.Notifications, a.Log); err != nil {
		return err
	}
	go a.Sessions.RunCompletion(ctx, time.Duration(a.Cfg.Scheduler.CompleteIntervalSeconds)*time.Second)
	return nil
}

func (a *App) Close() error {
	return a.Bus.Close()
}

// noModel answers every request with llm.ErrNoAPIKey so the chat degrades
// to its polite failure message.
type noModel struct{}

func (noModel) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResponse, error) {
	return nil, llm.ErrNoAPIKey
}
