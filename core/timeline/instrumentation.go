package timeline

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-rescue/core/timeline"

var logger = otelslog.NewLogger(scopeName)
