package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/khoahotran/tag-service/adapters/object_storage"
	"github.com/khoahotran/tag-service/adapters/persistence"
	tagUC "github.com/khoahotran/tag-service/internal/application/usecase/tag"
	"github.com/khoahotran/tag-service/internal/config"
	"github.com/khoahotran/tag-service/internal/domain/tag"
	"github.com/khoahotran/tag-service/pkg/auth"
	"github.com/khoahotran/tag-service/pkg/logger"
)

var configPath string

type deps struct {
	cfg    config.Config
	logger logger.Logger
	pool   *pgxpool.Pool
}

func loadDeps(ctx context.Context, needDB bool) (*deps, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	d := &deps{cfg: cfg, logger: logger.NewZapLogger(cfg.App.Env)}
	if needDB {
		d.pool, err = persistence.NewPostgresPool(ctx, cfg, d.logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
	}
	return d, nil
}

func (d *deps) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
	_ = d.logger.Sync()
}

func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every tag with its bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, true)
			if err != nil {
				return err
			}
			defer d.Close()

			tags, err := persistence.NewPostgresTagRepo(d.pool, d.logger).ListAll(ctx)
			if err != nil {
				return err
			}
			return printTags(cmd.OutOrStdout(), tags)
		},
	}
}

func printTags(out io.Writer, tags []*tag.Tag) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBUCKET\tCREATED")
	for _, t := range tags {
		bucket := t.Bucket()
		if bucket == "" {
			bucket = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Name, bucket, t.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func ReconcileCmd() *cobra.Command {
	var (
		dryRun bool
		minAge time.Duration
	)
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Delete tag buckets that no tag references",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := loadDeps(ctx, true)
			if err != nil {
				return err
			}
			defer d.Close()

			storage, err := object_storage.NewMinioAdapter(d.cfg, d.logger)
			if err != nil {
				return err
			}
			uc := tagUC.NewReconcileBucketsUseCase(persistence.NewPostgresTagRepo(d.pool, d.logger), storage, d.logger)
			return runReconcile(ctx, cmd.OutOrStdout(), uc, tagUC.ReconcileBucketsInput{DryRun: dryRun, MinAge: minAge})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only report orphan buckets")
	cmd.Flags().DurationVar(&minAge, "min-age", tagUC.DefaultReconcileMinAge, "skip buckets younger than this")
	return cmd
}

func runReconcile(ctx context.Context, out io.Writer, uc *tagUC.ReconcileBucketsUseCase, input tagUC.ReconcileBucketsInput) error {
	res, err := uc.Execute(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "orphan buckets: %d\n", len(res.Orphans))
	for _, b := range res.Orphans {
		fmt.Fprintf(out, "  %s\n", b)
	}
	if input.DryRun {
		return nil
	}
	fmt.Fprintf(out, "removed: %d\n", len(res.Removed))
	if len(res.Failed) == 0 {
		return nil
	}
	failed := make([]string, 0, len(res.Failed))
	for b := range res.Failed {
		failed = append(failed, b)
	}
	sort.Strings(failed)
	for _, b := range failed {
		fmt.Fprintf(out, "  failed %s: %v\n", b, res.Failed[b])
	}
	return fmt.Errorf("%d buckets could not be removed", len(res.Failed))
}

func TokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a token for the mutating tag routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer d.Close()

			if d.cfg.Auth.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET is not configured")
			}
			if ttl <= 0 {
				ttl = d.cfg.Auth.TokenLifespan
			}
			token, err := auth.NewJWTService(d.cfg.Auth.JWTSecret, ttl).GenerateToken(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "who the token is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to auth.token_lifespan)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

