package main

import (
	"fmt"
	"os"
	"property-service/internal"

	"github.com/spf13/cobra"
)

var (
	envFile        string
	migrateOnStart bool
)

var rootCmd = &cobra.Command{
	Use:   "property-service",
	Short: "REST API над объявлениями о недвижимости",
	// без подкоманды запускается сервер
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP-сервер",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить встроенные SQL-миграции",
	RunE: func(cmd *cobra.Command, args []string) error {
		return internal.Migrate(envFile)
	},
}

var refreshRankingsCmd = &cobra.Command{
	Use:   "refresh-rankings",
	Short: "Пересчитать материализованные представления лучших объектов",
	RunE: func(cmd *cobra.Command, args []string) error {
		return internal.RefreshRankings(envFile)
	},
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := internal.NewApp(envFile, migrateOnStart)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "путь к .env (по умолчанию ./.env, если есть)")
	rootCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "применить миграции перед стартом")
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "применить миграции перед стартом")

	rootCmd.AddCommand(serveCmd, migrateCmd, refreshRankingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
