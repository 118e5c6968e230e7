package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log — глобальный логгер приложения. Никогда не nil: пакет сам
// инициализирует разумный дефолт, а Init в main дочитывает окружение.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Init настраивает глобальный логгер по переменным окружения.
// Вызывается один раз при старте приложения.
//
//	LOG_LEVEL  — trace|debug|info|warn|error (по умолчанию info)
//	LOG_FORMAT — "json" для продакшена, иначе текст
func Init() {
	levelName, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}
}
