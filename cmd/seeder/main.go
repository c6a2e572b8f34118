//cmd/seeder/main.go
package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/spinwin-backend/internal/campaign"
	"github.com/unclebandit/spinwin-backend/internal/config"
	"github.com/unclebandit/spinwin-backend/internal/repository"
)

func main() {
	fixture := flag.String("fixture", "seed/campaign.yaml", "path to a campaign fixture")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	cfg.SetupLogging()
	policy, _ := cfg.Policy()

	ctx := context.Background()
	gateways, err := repository.Open(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open storage")
	}
	defer gateways.Close()

	if err := seed(ctx, gateways.Campaigns, *fixture, campaign.WithPromotionPolicy(policy), campaign.WithEditor("seeder")); err != nil {
		logrus.WithError(err).Fatal("seeding failed")
	}
	logrus.Info("database seeding completed successfully")
}

func seed(ctx context.Context, repo repository.CampaignGateway, path string, opts ...campaign.Option) error {
	f, err := LoadFixture(path)
	if err != nil {
		return err
	}
	a, err := f.Build(opts...)
	if err != nil {
		return err
	}
	snap := a.Snapshot()
	if err := repo.Save(ctx, &snap); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"campaign_id": snap.ID,
		"fixture":     path,
		"rewards":     len(snap.Configuration.Gifts),
	}).Info("seeded campaign")
	return nil
}
