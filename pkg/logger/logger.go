// Package logger arma el logger estructurado del servicio sobre zerolog:
// consola legible en desarrollo, JSON una línea por evento en producción.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controla salida y verbosidad.
type Config struct {
	Env   string // "development" activa la salida de consola; cualquier otro valor, JSON
	Level string // trace, debug, info, warn, error; valores desconocidos caen a info
}

// Logger envuelve zerolog para inyectarse por constructor en vez de depender
// del logger global.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger del servicio según cfg y lo instala además como
// logger global de zerolog para las librerías que escriben ahí.
func New(cfg Config) *Logger {
	var out io.Writer = os.Stdout
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

// Component devuelve un sublogger etiquetado con el componente emisor
// (p. ej. "sync", "reconciliation") para poder filtrar por subsistema.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos arbitrarios.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog expone el logger interno cuando hace falta la API completa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
