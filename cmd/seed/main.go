// Command seed loads regiments from a YAML file and grants admin roles.
//
//	seed -file seed/regiments.yaml -admin 01HXYZ -admin 01HABC
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/config"
	"github.com/ironbrigade/recruitment-portal/internal/infrastructure/db"
	"github.com/ironbrigade/recruitment-portal/internal/seed"
	"github.com/ironbrigade/recruitment-portal/pkg/logger"
)

type adminFlag []string

func (a *adminFlag) String() string { return strings.Join(*a, ",") }

func (a *adminFlag) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	_ = godotenv.Load()

	var admins adminFlag
	file := flag.String("file", "seed/regiments.yaml", "seed file with regiments and admins")
	flag.Var(&admins, "admin", "user id to grant the admin role (repeatable)")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "seed"})

	doc := &seed.File{}
	if *file != "" {
		if doc, err = seed.Load(*file); err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("load seed file")
		}
	}
	doc.Admins = append(doc.Admins, admins...)

	store, err := db.Open(ctx, cfg.Storage, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("open storage")
	}

	res, err := seed.Apply(ctx, doc, store.Regiments, store.Roles, log)
	_ = store.Close(ctx)
	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
	log.Info().Int("regiments", res.Regiments).Int("admins", res.Admins).Str("driver", store.Driver).Msg("seed complete")
}
