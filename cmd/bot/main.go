package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/fadedpez/cardtable/internal/config"
	"github.com/fadedpez/cardtable/internal/logging"
	"github.com/fadedpez/cardtable/pkg/discord"
	gameRepo "github.com/fadedpez/cardtable/pkg/repositories/game"
	walletRepo "github.com/fadedpez/cardtable/pkg/repositories/wallet"
	"github.com/fadedpez/cardtable/pkg/services/spades"
	walletSvc "github.com/fadedpez/cardtable/pkg/services/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("loading configuration")
	}

	log := logging.New(cfg.LogLevel, cfg.IsDevelopment())

	games, wallets, cleanup := buildRepositories(cfg, log)
	defer cleanup()

	walletService := walletSvc.NewService(wallets, log)

	spadesCfg := spades.Config{
		ScoreTarget: cfg.ScoreTarget,
		BidTimeout:  cfg.BidTimeout,
		PlayTimeout: cfg.PlayTimeout,
	}

	bot, err := discord.NewBot(cfg.Token, cfg.GuildID, spadesCfg, games, walletService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("creating bot")
	}

	if err := bot.Start(); err != nil {
		log.Fatal().Err(err).Msg("starting bot")
	}
	log.Info().Msg("bot is running, press CTRL-C to exit")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	log.Info().Msg("shutting down")
	if err := bot.Stop(); err != nil {
		log.Error().Err(err).Msg("stopping bot")
	}
}

// buildRepositories wires the storage layer from configuration,
// falling back to memory when SQLite cannot be opened.
func buildRepositories(cfg *config.Config, log zerolog.Logger) (gameRepo.Repository, walletRepo.Repository, func()) {
	var games gameRepo.Repository
	var wallets walletRepo.Repository

	if cfg.Database == "sqlite" {
		sqliteGames, err := gameRepo.NewSQLiteRepository(cfg.DatabasePath())
		if err != nil {
			log.Error().Err(err).Msg("opening game database, using memory")
			games = gameRepo.NewMemoryRepository()
		} else {
			log.Info().Str("path", cfg.DatabasePath()).Msg("game storage on SQLite")
			games = sqliteGames
		}

		sqliteWallets, err := walletRepo.NewSQLiteRepository(cfg.WalletDatabasePath())
		if err != nil {
			log.Error().Err(err).Msg("opening wallet database, using memory")
			wallets = walletRepo.NewMemoryRepository()
		} else {
			log.Info().Str("path", cfg.WalletDatabasePath()).Msg("wallet storage on SQLite")
			wallets = sqliteWallets
		}
	} else {
		log.Info().Msg("storage in memory, state is lost on restart")
		games = gameRepo.NewMemoryRepository()
		wallets = walletRepo.NewMemoryRepository()
	}

	if len(cfg.ESAddresses) > 0 {
		indexed, err := gameRepo.NewElasticsearchRepository(games, gameRepo.ElasticsearchConfig{
			Addresses:   cfg.ESAddresses,
			Username:    cfg.ESUsername,
			Password:    cfg.ESPassword,
			IndexPrefix: cfg.ESIndexPrefix,
		}, log)
		if err != nil {
			log.Error().Err(err).Msg("connecting to Elasticsearch, results won't be indexed")
		} else {
			log.Info().Strs("addresses", cfg.ESAddresses).Msg("indexing game results to Elasticsearch")
			games = indexed
		}
	}

	cleanup := func() {
		if err := games.Close(); err != nil {
			log.Error().Err(err).Msg("closing game repository")
		}
		if err := wallets.Close(); err != nil {
			log.Error().Err(err).Msg("closing wallet repository")
		}
	}
	return games, wallets, cleanup
}
