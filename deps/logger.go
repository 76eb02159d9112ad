package deps

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("tribunal")

// Everything except the message has a custom color which is dependent on
// the log level.
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000}  %{pid} %{module}	%{shortfile}	▶ %{level:.4s} %{id:03x}%{color:reset} %{message}`,
)

func IgniteLogger(container Deps) (Deps, error) {
	backend := logging.NewLogBackend(os.Stdout, "", 0)
	formatter := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatter)
	level, err := logging.LogLevel(container.Config().UString("logging.level", "INFO"))
	if err != nil {
		return container, err
	}
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
	container.LoggerProvider = log
	return container, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
