package telegramimpl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"
	tgclient "github.com/orgball2608/telegram-hugo-exporter/internal/telegram"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/config"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	Client *telegram.Client
	Logger logger.Logger
	Config *config.Config
}

func New(opts Opts) (*TelegramImpl, error) {
	if opts.Config.Telegram.ApiID == 0 || opts.Config.Telegram.ApiHash == "" {
		return nil, fmt.Errorf("TELEGRAM_API_ID and TELEGRAM_API_HASH are required")
	}

	client := telegram.NewClient(opts.Config.Telegram.ApiID, opts.Config.Telegram.ApiHash, telegram.Options{
		SessionStorage: &telegram.FileSessionStorage{
			Path: opts.Config.Telegram.SessionPath,
		},
	})

	return &TelegramImpl{
		Client: client,
		Logger: opts.Logger.WithComponent("Telegram"),
		Config: opts.Config,
	}, nil
}

var _ tgclient.Client = (*TelegramImpl)(nil)

// Run connects, authenticates the user session (prompting for the login code
// on first run) and passes an authenticated session to fn.
func (t *TelegramImpl) Run(ctx context.Context, fn func(ctx context.Context, session tgclient.Session) error) error {
	return t.Client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(
			auth.Constant(t.Config.Telegram.Phone, "", auth.CodeAuthenticatorFunc(promptCode)),
			auth.SendCodeOptions{},
		)
		if err := t.Client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		self, err := t.Client.Self(ctx)
		if err != nil {
			return fmt.Errorf("failed to get self: %w", err)
		}
		t.Logger.Info("Connected to Telegram",
			"first_name", self.FirstName,
			"username", self.Username)

		sess := &session{
			api:    t.Client.API(),
			dl:     downloader.NewDownloader(),
			logger: t.Logger,
			media:  make(map[int]tg.MessageMediaClass),
		}
		return fn(ctx, sess)
	})
}

func promptCode(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	fmt.Print("Enter the login code sent to your Telegram app: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}
