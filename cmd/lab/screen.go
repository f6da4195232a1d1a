package main

import (
	"SmallCapLab/internal/di"
	"SmallCapLab/internal/domain/models"
	"SmallCapLab/pkg/util"

	"github.com/creasty/defaults"
	"github.com/spf13/cobra"
)

func newScreenCmd(opts *rootOptions) *cobra.Command {
	req := &models.ScreenRequest{}
	_ = defaults.Set(req)

	var source, baseURL string
	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen exchange quote snapshots and print ranked candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if source != "" {
				cfg.Quotes.Source = source
			}
			if baseURL != "" {
				cfg.FMP.BaseURL = baseURL
			}
			l := opts.logger(cfg)

			ch, err := di.ProvideClickHouseClient(cfg, l)
			if err != nil {
				return err
			}
			if ch != nil {
				defer ch.Close()
			}
			sources, err := di.ProvideQuoteSources(cfg, ch, l)
			if err != nil {
				return err
			}
			screener := di.ProvideScreener(cfg, sources, nil, l)

			outcome := screener.Screen(cmd.Context(), models.ScreenCriteria{
				MinPrice:              req.MinPrice,
				MinMarketCap:          req.MinMarketCap,
				MinDollarVolume:       req.MinDollarVolume,
				Exchanges:             util.SplitCSV(req.Exchanges),
				ResultLimit:           req.Limit,
				ConfidencePassthrough: req.Conf,
			})
			return writeJSON(cmd.OutOrStdout(), models.ScreenResponse{
				OK:       true,
				Count:    len(outcome.Results),
				Criteria: outcome.Criteria,
				Results:  outcome.Results,
				Warnings: outcome.Warnings,
			})
		},
	}

	f := cmd.Flags()
	f.Float64Var(&req.MinPrice, "min-price", req.MinPrice, "minimum last price")
	f.Float64Var(&req.MinMarketCap, "min-market-cap", req.MinMarketCap, "minimum market capitalization")
	f.Float64Var(&req.MinDollarVolume, "min-dollar-volume", req.MinDollarVolume, "minimum price * volume")
	f.StringVar(&req.Exchanges, "exchanges", req.Exchanges, "comma separated exchanges")
	f.IntVar(&req.Limit, "limit", req.Limit, "maximum number of results (1..1000)")
	f.Float64Var(&req.Conf, "conf", req.Conf, "confidence copied to every result")
	f.StringVar(&source, "source", "", "quote source override: fmp or clickhouse")
	f.StringVar(&baseURL, "fmp-base-url", "", "FMP base URL override")
	return cmd
}
