package intent

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-rescue/core/intent"

var logger = otelslog.NewLogger(scopeName)
