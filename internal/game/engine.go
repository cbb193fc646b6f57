package game

import (
	"fmt"

	"github.com/wfunc/battle-slot/internal/config"
	"github.com/wfunc/battle-slot/internal/game/slot"
	"github.com/wfunc/battle-slot/internal/logger"
	"github.com/wfunc/battle-slot/internal/metrics"
	"go.uber.org/zap"
)

// NewRandomSource 按配置创建随机数源
func NewRandomSource(cfg *config.GameConfig) (slot.RandomSource, error) {
	switch cfg.RandomSource {
	case "", "crypto":
		return slot.NewCryptoSource(), nil
	case "seeded":
		return slot.NewSeededSource(cfg.Seed), nil
	default:
		return nil, fmt.Errorf("不支持的随机数源: %s", cfg.RandomSource)
	}
}

// BoostChoices 配置中的加成档位，未配置时使用默认档位
func BoostChoices(cfg *config.GameConfig) []slot.BoostChoice {
	if len(cfg.Boosts) == 0 {
		return slot.DefaultBoosts()
	}
	choices := make([]slot.BoostChoice, 0, len(cfg.Boosts))
	for _, b := range cfg.Boosts {
		choices = append(choices, slot.BoostChoice{
			Label:      b.Label,
			Cost:       b.Cost,
			Multiplier: b.Multiplier,
		})
	}
	return choices
}

// NewEngine 使用标准结果表和配置的档位创建结算引擎
func NewEngine(cfg *config.GameConfig) (*slot.Engine, error) {
	log := logger.WithModule("game")

	ladder, err := slot.NewBoostLadder(BoostChoices(cfg))
	if err != nil {
		return nil, err
	}
	source, err := NewRandomSource(cfg)
	if err != nil {
		return nil, err
	}

	catalog := slot.DefaultCatalog()
	engine, err := slot.NewEngine(catalog, ladder, source)
	if err != nil {
		return nil, err
	}

	metrics.ExpectedPayout.Set(catalog.ExpectedPayout())
	log.Info("结果表已加载",
		zap.Int("moves", len(catalog.Moves())),
		zap.Float64("expected_payout", catalog.ExpectedPayout()),
		zap.Float64("win_probability", catalog.WinProbability()),
		zap.Int("boosts", len(ladder.All())),
		zap.String("random_source", cfg.RandomSource),
	)
	return engine, nil
}
