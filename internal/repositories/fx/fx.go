package fx

import (
	"github.com/orgball2608/telegram-hugo-exporter/internal/repositories/export"
	"go.uber.org/fx"
)

var Module = fx.Options(
	export.Module,
)
