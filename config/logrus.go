package config

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber"
	"github.com/sirupsen/logrus"
)

var logrusInstance *logrus.Logger

func GetLogrusInstance() *logrus.Logger {
	if logrusInstance == nil {
		logrusInstance = logrus.New()
		logrusInstance.SetFormatter(&logrus.JSONFormatter{})
	}
	return logrusInstance
}

const (
	green  = "\033[32m" // 2xx
	yellow = "\033[33m" // 3xx
	red    = "\033[31m" // 4xx and 5xx
	reset  = "\033[0m"
)

// PrintLogInfo writes one line per handled request with the acting user (nil
// for the public endpoints), the handler name and the colored status.
func PrintLogInfo(username *string, statusCode int, functionName string) {
	var logColor string

	switch {
	case statusCode < fiber.StatusMultipleChoices:
		logColor = green
	case statusCode < fiber.StatusBadRequest:
		logColor = yellow
	default:
		logColor = red
	}

	user := "anonymous"
	if username != nil {
		user = *username
	}

	GetLogrusInstance().WithFields(logrus.Fields{
		"app":     GetAppName(),
		"user":    user,
		"handler": functionName,
		"status":  statusCode,
	}).Info(fmt.Sprintf("%s[%d] %s%s", logColor, statusCode, http.StatusText(statusCode), reset))
}
