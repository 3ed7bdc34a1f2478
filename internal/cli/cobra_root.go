package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errNoCommand = errors.New("a command is required; see autodevstack --help")

// buildRootCmd is a convenience for help-only fallbacks.
func buildRootCmd() *cobra.Command { return buildRootCmdWith(&Globals{}) }

// buildRootCmdWith constructs the command tree wired to the fn* actions.
func buildRootCmdWith(g *Globals) *cobra.Command {
	root := &cobra.Command{
		Use:           "autodevstack",
		Short:         "Generate fullstack projects from a text description with Hugging Face models",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errNoCommand
		},
	}
	root.PersistentFlags().StringVar(&g.ConfigPath, "config", g.ConfigPath, "Config file (.yaml, .json or .toml)")
	root.PersistentFlags().StringVar(&g.LogLevel, "log-level", g.LogLevel, "Log level: debug|info|warn|error (defaults AUTODEVSTACK_LOG_LEVEL or info)")

	var fixDryRun bool
	fixCmd := &cobra.Command{
		Use:     "fix <logFile> <targetFile>",
		Short:   "Ask the AI to fix targetFile using the error log",
		Example: "  autodevstack fix logs/error.log src/adapters/userRouter.ts",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnRunFix(cmd.Context(), g, args[0], args[1], fixDryRun)
		},
	}
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Print the suggestion without touching targetFile")

	var gen generateOptions
	generateCmd := &cobra.Command{
		Use:     "generate",
		Short:   "Regenerate routers, components and tests from a project's Prisma schema",
		Example: "  autodevstack generate --name shop",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnRunGenerate(cmd.Context(), g, gen)
		},
	}
	generateCmd.Flags().StringVar(&gen.Name, "name", "", "Project name under the projects directory")
	generateCmd.Flags().StringVar(&gen.Dir, "dir", "", "Project directory (overrides --name)")

	var create createOptions
	createCmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a project from a text description",
		Example: "  autodevstack create --spec \"a shop with users and orders\" --name shop",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnRunCreate(cmd.Context(), g, create)
		},
	}
	createCmd.Flags().StringVar(&create.DB, "db", "postgres", "Database")
	createCmd.Flags().StringVar(&create.Frontend, "frontend", "nextjs", "Frontend")
	createCmd.Flags().StringVar(&create.Backend, "backend", "express", "Backend")
	createCmd.Flags().StringVar(&create.Spec, "spec", "", "Text description of the application")
	createCmd.Flags().StringVar(&create.Name, "name", "", "Project name (folder under projects/)")
	createCmd.Flags().BoolVar(&create.SkipMigrate, "skip-migrate", false, "Write the schema without running prisma migrate")
	createCmd.Flags().BoolVar(&create.NoInstall, "no-install", false, "Do not run npm install")
	createCmd.Flags().BoolVar(&create.NoStart, "no-start", false, "Do not launch npm run start")

	var chat chatOptions
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive AI chat about a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnRunChat(cmd.Context(), g, chat)
		},
	}
	chatCmd.Flags().StringVar(&chat.Name, "name", "", "Project name (folder under projects/)")
	chatCmd.Flags().StringVar(&chat.Model, "model", "", "Model id (defaults to the best chat model)")
	chatCmd.Flags().StringVar(&chat.Provider, "provider", "", "Inference provider")
	chatCmd.Flags().BoolVar(&chat.Plain, "plain", false, "Print replies without markdown rendering")

	updateCmd := &cobra.Command{
		Use:   "update-models",
		Short: "Rank Hugging Face models per task and rewrite best_models.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnUpdateModels(cmd.Context(), g)
		},
	}

	list := listOptions{Out: "models_list.txt", Limit: 20}
	listCmd := &cobra.Command{
		Use:   "list-models",
		Short: "List Hugging Face models and save the full list to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnListModels(cmd.Context(), g, list)
		},
	}
	listCmd.Flags().StringVar(&list.Out, "out", list.Out, "File receiving the full list")
	listCmd.Flags().IntVar(&list.Limit, "limit", list.Limit, "Models printed to the console")

	var srv serveOptions
	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the AI service over HTTP",
		Example: "  autodevstack serve --port-start 8080 --port-end 8099",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnServe(cmd.Context(), g, srv)
		},
	}
	serveCmd.Flags().StringVar(&srv.Host, "host", "", "Listen host (defaults api_host)")
	serveCmd.Flags().IntVar(&srv.PortStart, "port-start", 0, "First port to try (defaults api_port_start)")
	serveCmd.Flags().IntVar(&srv.PortEnd, "port-end", 0, "Last port to try (defaults api_port_end)")
	serveCmd.Flags().IntVar(&srv.AITimeoutS, "ai-timeout", 0, "Seconds allowed per POST /ai request (0 = no limit)")
	serveCmd.Flags().StringSliceVar(&srv.CORSOrigins, "cors-origins", nil, "Allowed CORS origins; enables CORS when set")

	root.AddCommand(fixCmd, generateCmd, createCmd, chatCmd, updateCmd, listCmd, serveCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	root.AddCommand(completionCmd)

	return root
}
