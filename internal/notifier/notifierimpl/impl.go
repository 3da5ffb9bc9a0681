package notifierimpl

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/telegram-hugo-exporter/internal/notifier"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/config"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type NotifierImpl struct {
	TgBot  *tgbotapi.BotAPI
	Logger logger.Logger
	Config *config.Config
}

// New creates the bot-backed notifier. Without a bot token the notifier is
// disabled: sends become no-ops instead of errors.
func New(opts Opts) (*NotifierImpl, error) {
	log := opts.Logger.WithComponent("Notifier")

	if opts.Config.Telegram.BotToken == "" {
		log.Info("No bot token configured, operator notifications disabled")
		return &NotifierImpl{Logger: log, Config: opts.Config}, nil
	}

	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.BotToken)
	if err != nil {
		log.Error("Error creating bot", "error", err)
		return nil, err
	}

	return &NotifierImpl{
		TgBot:  tgBot,
		Logger: log,
		Config: opts.Config,
	}, nil
}

var _ notifier.Client = (*NotifierImpl)(nil)

// SendMessageToUser sends a text message to the configured operator user.
func (n *NotifierImpl) SendMessageToUser(message string) {
	if n.TgBot == nil || n.Config.Telegram.User == 0 {
		return
	}

	msg := tgbotapi.NewMessage(n.Config.Telegram.User, message)
	if _, err := n.TgBot.Send(msg); err != nil {
		n.Logger.Error("Error sending message to user",
			"userID", n.Config.Telegram.User,
			"error", err)
		return
	}

	n.Logger.Info("Message sent to user", "userID", n.Config.Telegram.User)
}
