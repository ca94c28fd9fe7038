package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"promotion-backend/config"
	"promotion-backend/database"
	"promotion-backend/importer"
	"promotion-backend/models"
	"promotion-backend/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: promotion-backend <command> [args]

commands:
  migrate              apply the schema and exit
  import <file.json>   create or update promotions from a JSON array
  export [file.json]   write every promotion as a JSON array (stdout by default)
  list [-name NAME]    print promotions, optionally filtered by exact name
  get <id>             print one promotion
  delete <id>          delete one promotion
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error loading .env file: %v\n", err)
		os.Exit(1)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "environment validation failed: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing database connection")
			}
		}
	}()

	if err := database.Setup(db, cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo := repository.NewGormPromotionRepository(db)
	if err := run(ctx, repo, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, repo repository.PromotionRepository, cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "migrate":
		log.Info().Msg("Schema is up to date")
		return nil

	case "import":
		if len(args) != 1 {
			return fmt.Errorf("import takes exactly one file argument")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		rows, err := importer.ReadRows(f)
		if err != nil {
			return err
		}
		report := importer.New(repo).Import(ctx, rows)
		if err := writeJSON(out, report); err != nil {
			return err
		}
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d promotions failed to import", report.Failed, report.Total)
		}
		return nil

	case "export":
		w := out
		if len(args) > 0 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		return importer.New(repo).Export(ctx, w)

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		name := fs.String("name", "", "exact promotion name")
		if err := fs.Parse(args); err != nil {
			return err
		}
		var promotions []models.Promotion
		var err error
		if *name != "" {
			promotions, err = repo.FindByName(ctx, *name)
		} else {
			promotions, err = repo.All(ctx)
		}
		if err != nil {
			return err
		}
		rows := make([]map[string]any, 0, len(promotions))
		for i := range promotions {
			rows = append(rows, promotions[i].Serialize())
		}
		return writeJSON(out, rows)

	case "get", "delete":
		if len(args) != 1 {
			return fmt.Errorf("%s takes exactly one id argument", cmd)
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid promotion id %q: %w", args[0], err)
		}
		promotion, err := repo.Find(ctx, id)
		if err != nil {
			return err
		}
		if promotion == nil {
			return fmt.Errorf("promotion with id '%d' was not found", id)
		}
		if cmd == "delete" {
			return repo.Delete(ctx, promotion)
		}
		return writeJSON(out, promotion.Serialize())
	}

	return fmt.Errorf("unknown command %q\n%s", cmd, usage)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(env, level string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if level != "" {
		if lvl, err := zerolog.ParseLevel(level); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
