package clips

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-rescue/core/clips"

var logger = otelslog.NewLogger(scopeName)
