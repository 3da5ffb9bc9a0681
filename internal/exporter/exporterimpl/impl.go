package exporterimpl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/orgball2608/telegram-hugo-exporter/internal/exporter"
	"github.com/orgball2608/telegram-hugo-exporter/internal/media"
	"github.com/orgball2608/telegram-hugo-exporter/internal/notifier"
	"github.com/orgball2608/telegram-hugo-exporter/internal/repositories/export"
	"github.com/orgball2608/telegram-hugo-exporter/internal/telegram"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/config"
	"github.com/orgball2608/telegram-hugo-exporter/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Telegram   telegram.Client
	Notifier   notifier.Client
	ExportRepo export.Repository
	Logger     logger.Logger
	Config     *config.Config
}

type ExporterImpl struct {
	Telegram   telegram.Client
	Notifier   notifier.Client
	ExportRepo export.Repository
	Logger     logger.Logger
	Config     *config.Config
	Saver      *media.Saver

	input *bufio.Reader
}

func New(opts Opts) *ExporterImpl {
	return &ExporterImpl{
		Telegram:   opts.Telegram,
		Notifier:   opts.Notifier,
		ExportRepo: opts.ExportRepo,
		Logger:     opts.Logger.WithComponent("Exporter"),
		Config:     opts.Config,
		Saver:      media.NewSaver(opts.Logger),
		input:      bufio.NewReader(os.Stdin),
	}
}

var _ exporter.Client = (*ExporterImpl)(nil)

func (e *ExporterImpl) promptChannel() (string, error) {
	fmt.Print("Enter channel username (e.g., @channelname): ")
	line, err := e.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read channel identifier: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (e *ExporterImpl) promptYes(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	line, err := e.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
