package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/impact-atlas/internal/adapter/kafka"
	"github.com/couchcryptid/impact-atlas/internal/adapter/static"
	"github.com/couchcryptid/impact-atlas/internal/domain"
)

const defaultExportTopic = "impact-atlas.features"

// publisher is the part of kafka.Writer the export command drives.
type publisher interface {
	PublishCraters(ctx context.Context, craters []domain.Crater) error
	PublishMeteorites(ctx context.Context, meteorites []domain.Meteorite) error
	Close() error
}

// newPublisher is swapped out in tests.
var newPublisher = func(brokers []string, topic string, logger *slog.Logger) publisher {
	return kafka.NewWriter(brokers, topic, logger, nil)
}

func newExportCmd() *cobra.Command {
	var (
		brokers        string
		topic          string
		cratersFile    string
		meteoritesFile string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Publish both catalogs to Kafka, one GeoJSON feature per message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addrs := sharedcfg.ParseBrokers(brokers)
			if len(addrs) == 0 {
				return errors.New("at least one broker is required")
			}
			if cratersFile == "" && meteoritesFile == "" {
				return errors.New("nothing to export: set --craters-file or --meteorites-file")
			}

			logger := cliLogger(cmd)
			pub := newPublisher(addrs, topic, logger)
			defer func() {
				if err := pub.Close(); err != nil {
					logger.Error("kafka writer close error", "error", err)
				}
			}()

			out := cmd.OutOrStdout()
			if cratersFile != "" {
				craters, err := static.NewCraterFile(cratersFile).LoadCraters(cmd.Context())
				if err != nil {
					return err
				}
				if err := pub.PublishCraters(cmd.Context(), craters); err != nil {
					return err
				}
				fmt.Fprintf(out, "exported %d craters to %s\n", len(craters), topic)
			}
			if meteoritesFile != "" {
				meteorites, err := static.NewMeteoriteFile(meteoritesFile).FetchMeteorites(cmd.Context())
				if err != nil {
					return err
				}
				if err := pub.PublishMeteorites(cmd.Context(), meteorites); err != nil {
					return err
				}
				fmt.Fprintf(out, "exported %d meteorites to %s\n", len(meteorites), topic)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&brokers, "brokers", sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092"), "comma-separated Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", sharedcfg.EnvOrDefault("KAFKA_EXPORT_TOPIC", defaultExportTopic), "destination topic")
	cmd.Flags().StringVar(&cratersFile, "craters-file", craterFileDefault(), "crater GeoJSON file, empty to skip")
	cmd.Flags().StringVar(&meteoritesFile, "meteorites-file", "", "meteorite JSON dump, empty to skip")
	return cmd
}
