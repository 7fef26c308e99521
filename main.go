package main

import (
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/routes"
	"github.com/cppla/postboard/utils"
)

const configFlag = "config"

// runners holds what each subcommand does with the resolved config path.
type runners struct {
	serve   func(configPath string) error
	migrate func(configPath string) error
}

func main() {
	if err := newRootCommand(runners{serve: serve, migrate: migrate}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(run runners) *cobra.Command {
	// Persistent and registered on root only, so serve and migrate share the parsed value.
	cfgFlag := &cobraflags.StringFlag{
		Name:       configFlag,
		Value:      config.DefaultPath,
		Usage:      "Path to the JSON configuration file",
		Persistent: true,
	}

	root := &cobra.Command{
		Use:           "postboard",
		Short:         "Post board API with an audited data store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run.serve(cfgFlag.GetString())
		},
	}
	cfgFlag.Register(root)

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate the schema and start the HTTP server",
			RunE: func(_ *cobra.Command, _ []string) error {
				return run.serve(cfgFlag.GetString())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update database tables and exit",
			RunE: func(_ *cobra.Command, _ []string) error {
				return run.migrate(cfgFlag.GetString())
			},
		},
	)
	return root
}

func boot(configPath string) (config.AppConfig, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return config.AppConfig{}, err
	}
	config.Set(cfg)
	cfg = config.Get()

	if err := utils.InitLogger(cfg); err != nil {
		return config.AppConfig{}, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}

func migrate(configPath string) error {
	cfg, err := boot(configPath)
	if err != nil {
		return err
	}
	conn, err := config.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := config.Migrate(conn, models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	utils.Sugar.Info("migration finished")
	return nil
}

func serve(configPath string) error {
	cfg, err := boot(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(models.All()...)
	if rc := utils.InitRedis(cfg); rc != nil {
		defer rc.Close()
	}

	r := routes.SetupRouter(db, cfg)

	utils.Sugar.Infof("Starting server on port %s", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
