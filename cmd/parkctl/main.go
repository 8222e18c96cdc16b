package main

import (
	"fmt"
	"os"

	"github.com/bassista/go_park/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	logger.SetOutput(os.Stderr)
	logger.Logger.SetLevel(logrus.WarnLevel)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
