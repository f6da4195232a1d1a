package main

import (
	"SmallCapLab/internal/di"
	"SmallCapLab/internal/domain/models"
	domsvc "SmallCapLab/internal/domain/service"
	"SmallCapLab/internal/usecase"

	"github.com/creasty/defaults"
	"github.com/spf13/cobra"
)

func newSizeCmd(opts *rootOptions) *cobra.Command {
	req := &models.SignalRequest{}
	_ = defaults.Set(req)

	cmd := &cobra.Command{
		Use:   "size",
		Short: "Compute a Kelly based position weight",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			l := opts.logger(cfg)

			var provider domsvc.ConfidenceProvider
			if req.Regime {
				ch, err := di.ProvideClickHouseClient(cfg, l)
				if err != nil {
					return err
				}
				if ch != nil {
					defer ch.Close()
				}
				provider = di.ProvideConfidenceProvider(cfg, ch, l)
			}

			res, err := usecase.NewSignalUseCase(provider, nil, l).Compute(cmd.Context(), usecase.SignalParams{
				Symbol:     req.Symbol,
				Confidence: req.Conf,
				Mu:         req.Mu,
				Sigma:      req.Sigma,
				KellyMode:  req.KellyMode,
				MaxWeight:  req.MaxWeight,
				UseRegime:  req.Regime,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Symbol, "symbol", req.Symbol, "ticker symbol")
	f.Float64Var(&req.Conf, "conf", req.Conf, "P(risk-on) in [0,1]")
	f.Float64Var(&req.Mu, "mu", req.Mu, "expected return per period")
	f.Float64Var(&req.Sigma, "sigma", req.Sigma, "return volatility per period")
	f.StringVar(&req.KellyMode, "mode", req.KellyMode, "kelly fraction: quarter, half or full")
	f.Float64Var(&req.MaxWeight, "max-weight", req.MaxWeight, "weight cap")
	f.BoolVar(&req.Regime, "regime", false, "take confidence from the regime service")
	return cmd
}
