package discord

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/application"
	"eventbot/internal/config"
	"eventbot/internal/ports/output"
	"eventbot/pkg/tz"
)

const shutdownTimeout = 15 * time.Second

// Bot is the Discord adapter.
type Bot struct {
	session *discordgo.Session
	config  *config.Config
	engine  *application.Engine
	handler *Handler
}

// NewBot creates a Bot and wires ports: output adapters -> engine -> handler.
func NewBot(cfg *config.Config, store output.EventStore, tr output.T) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création de la session Discord: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentsMessageContent

	loc, err := tz.Load(cfg.EventTimezone)
	if err != nil {
		return nil, err
	}

	messenger := NewMessenger(s)
	engine := application.New(messenger, store, timerScheduler{}, tr,
		application.WithOwner(cfg.OwnerID),
		application.WithLocale(cfg.Locale),
		application.WithLocation(loc),
		application.WithPrefix(cfg.CommandPrefix),
	)

	bot := &Bot{
		session: s,
		config:  cfg,
		engine:  engine,
		handler: NewHandler(engine, messenger, cfg),
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(b.handler.onMessageCreate)
	b.session.AddHandler(b.handler.onReactionAdd)
}

// Start restores the saved events, then runs the bot until interrupted.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.engine.Restore(ctx); err != nil {
		return fmt.Errorf("restauration des événements: %w", err)
	}

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("erreur lors de l'ouverture de la session: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go b.handler.RunAutosave(ctx, b.config.AutosaveInterval)

	log.Println("🤖 Bot en ligne ! Appuyez sur CTRL+C pour quitter.")
	<-ctx.Done()

	return shutdown(b.session, b.engine)
}

type saver interface {
	Shutdown(ctx context.Context) error
}

// shutdown closes the gateway before the final save, so no event reaches the
// engine once it has been persisted.
func shutdown(gateway io.Closer, events saver) error {
	if err := gateway.Close(); err != nil {
		log.Printf("⚠️ Fermeture de la session: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := events.Shutdown(ctx); err != nil {
		return fmt.Errorf("sauvegarde à l'arrêt: %w", err)
	}
	return nil
}
