package commands

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd constructs the insights root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "GitHub commit ETL and analytics for a single repository",
		Long: "insights fetches the commit history of one GitHub repository over a " +
			"trailing window of months, loads it into a local SQLite store, and " +
			"answers analytical questions: top contributors, longest commit streak, " +
			"and a day-of-week/hour-of-day activity heatmap.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// newLogger builds the shared logger and loads .env configuration. Called
// once per command invocation.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found")
	}

	return logger
}
