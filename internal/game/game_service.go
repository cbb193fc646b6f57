package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/game/slot"
	"github.com/wfunc/battle-slot/internal/logger"
	"github.com/wfunc/battle-slot/internal/metrics"
	"github.com/wfunc/battle-slot/internal/models"
	"github.com/wfunc/battle-slot/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Publisher 把游戏事件推送给在线客户端
type Publisher interface {
	SendToPlayer(playerID uint, msgType string, data interface{}) error
	Broadcast(msgType string, data interface{}) error
}

// GameService 游戏服务（业务逻辑层）
type GameService struct {
	repos        *repository.Manager
	engine       *slot.Engine
	villainMaxHP int64
	publisher    Publisher
	stats        *StatsService
	logger       *zap.Logger
	now          func() time.Time
}

// GameServiceConfig 游戏服务配置
type GameServiceConfig struct {
	DB           *gorm.DB
	Logger       *zap.Logger
	Engine       *slot.Engine
	VillainMaxHP int64
	Publisher    Publisher
	Stats        *StatsService
	Clock        func() time.Time
}

// NewGameService 创建游戏服务
func NewGameService(config *GameServiceConfig) *GameService {
	log := config.Logger
	if log == nil {
		log = logger.WithModule("game")
	}
	engine := config.Engine
	if engine == nil {
		engine = slot.NewDefaultEngine()
	}
	maxHP := config.VillainMaxHP
	if maxHP <= 0 {
		maxHP = 100
	}
	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &GameService{
		repos:        repository.NewManager(config.DB),
		engine:       engine,
		villainMaxHP: maxHP,
		publisher:    config.Publisher,
		stats:        config.Stats,
		logger:       log,
		now:          clock,
	}
}

// Engine 结算引擎
func (s *GameService) Engine() *slot.Engine {
	return s.engine
}

// SetPublisher 设置事件推送
func (s *GameService) SetPublisher(p Publisher) {
	s.publisher = p
}

// Spin 旋转一次：扣费、抽取、结算、落库在同一个事务里完成
func (s *GameService) Spin(ctx context.Context, playerID uint, boostLabel string, lines int) (*SpinOutcome, error) {
	start := time.Now()

	bet, err := s.engine.NewBet(boostLabel, lines)
	if err != nil {
		return nil, betError(err)
	}

	roundID := uuid.NewString()
	var out *SpinOutcome

	err = s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		player, err := tx.Player().FindByIDForUpdate(ctx, playerID)
		if err != nil {
			return lookupError(err)
		}
		if !player.CanAfford(bet.Cost()) {
			return apperrors.Newf(apperrors.ErrInsufficientTronium, "余额 %d，需要 %d", player.Tronium, bet.Cost())
		}

		now := s.now()
		battle, err := s.currentBattle(ctx, tx, playerID, now)
		if err != nil {
			return err
		}

		spin, err := s.engine.Spin(bet)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrEngineInvariant)
		}

		effect, err := ApplySpin(player, battle, bet, spin.Result.Winnings, now)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrBattleFinished)
		}

		if err := tx.Player().Update(ctx, player); err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseUpdate, "保存玩家失败")
		}
		if err := tx.Battle().Update(ctx, battle); err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseUpdate, "保存战斗失败")
		}

		record := &models.SpinRecord{
			RoundID:        roundID,
			PlayerID:       player.ID,
			BattleID:       battle.ID,
			Boost:          bet.Boost.Label,
			Lines:          bet.Lines.Count(),
			Cost:           bet.Cost(),
			Draws:          models.JSONFloats(spin.Draws),
			MoveIDs:        models.JSONStrings(spin.Result.MoveIDs()),
			Payout:         spin.Result.Winnings.Payout,
			Damage:         spin.Result.Winnings.Damage,
			Epicness:       spin.Result.Winnings.Epicness,
			BalanceAfter:   player.Tronium,
			VillainHPAfter: battle.VillainHP,
		}
		if spin.Result.FeaturedMove != nil {
			record.FeaturedMove = spin.Result.FeaturedMove.ID
		}
		if err := tx.SpinRecord().Create(ctx, record); err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseInsert, "保存旋转记录失败")
		}

		out = &SpinOutcome{
			RoundID: roundID,
			Player:  player,
			Battle:  battle,
			Bet:     bet,
			Cost:    bet.Cost(),
			Result:  spin.Result,
			Effect:  effect,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterSpin(out, time.Since(start))
	return out, nil
}

// afterSpin 提交后的指标、日志和推送
func (s *GameService) afterSpin(out *SpinOutcome, took time.Duration) {
	w := out.Result.Winnings

	metrics.RecordSpin(metrics.SpinSample{
		Boost:   out.Bet.Boost.Label,
		Lines:   out.Bet.Lines.Count(),
		Cost:    out.Cost,
		Payout:  w.Payout,
		Damage:  w.Damage,
		MoveIDs: out.Result.MoveIDs(),
		Win:     out.Result.HasWin(),
	})
	metrics.SpinDuration.Observe(took.Seconds())

	s.logger.Info("旋转完成",
		zap.String("round_id", out.RoundID),
		zap.Uint("player_id", out.Player.ID),
		zap.Uint("battle_id", out.Battle.ID),
		zap.String("boost", out.Bet.Boost.Label),
		zap.Int("lines", out.Bet.Lines.Count()),
		zap.Int64("cost", out.Cost),
		zap.Int64("payout", w.Payout),
		zap.Int64("damage", w.Damage),
		zap.Int64("epicness", w.Epicness),
		zap.Strings("moves", out.Result.MoveIDs()),
		zap.Duration("took", took),
	)

	if out.Effect.Finished {
		metrics.RecordBattleFinished()
		logger.LogGameEvent("battle_finished", out.RoundID, map[string]interface{}{
			"battle_id": out.Battle.ID,
			"player_id": out.Player.ID,
			"epicness":  out.Battle.Epicness,
			"tronium":   out.Battle.Tronium,
			"spins":     out.Battle.Spins,
		})
		if s.stats != nil {
			s.stats.Invalidate()
		}
	}

	s.publish(out)
}

// publish 推送旋转结果，战斗结束时广播
func (s *GameService) publish(out *SpinOutcome) {
	if s.publisher == nil {
		return
	}

	event := SpinEvent{
		RoundID:  out.RoundID,
		Battle:   out.Battle,
		Tronium:  out.Player.Tronium,
		Result:   out.Result,
		Finished: out.Effect.Finished,
	}
	if err := s.publisher.SendToPlayer(out.Player.ID, EventSpinResult, event); err != nil {
		s.logger.Debug("推送旋转结果失败", zap.Uint("player_id", out.Player.ID), zap.Error(err))
	}

	if out.Effect.Finished {
		finished := BattleFinishedEvent{
			BattleID:   out.Battle.ID,
			PlayerName: out.Player.Name,
			Epicness:   out.Battle.Epicness,
			Tronium:    out.Battle.Tronium,
			Seconds:    out.Battle.Seconds(),
			Spins:      out.Battle.Spins,
		}
		if err := s.publisher.Broadcast(EventBattleFinished, finished); err != nil {
			s.logger.Debug("广播战斗结束失败", zap.Error(err))
		}
	}
}

// currentBattle 当前战斗，没有时创建新的
func (s *GameService) currentBattle(ctx context.Context, tx *repository.Transaction, playerID uint, now time.Time) (*models.Battle, error) {
	battle, err := tx.Battle().FindCurrent(ctx, playerID)
	if err == nil {
		return battle, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	battle = NewBattle(playerID, s.villainMaxHP, now)
	if err := tx.Battle().Create(ctx, battle); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseInsert, "创建战斗失败")
	}
	s.logger.Debug("新战斗", zap.Uint("player_id", playerID), zap.Uint("battle_id", battle.ID))
	return battle, nil
}

// CurrentBattle 玩家当前战斗，上一场已结束时开始新的一场
func (s *GameService) CurrentBattle(ctx context.Context, playerID uint) (*models.Battle, error) {
	var battle *models.Battle
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		if _, err := tx.Player().FindByID(ctx, playerID); err != nil {
			return lookupError(err)
		}
		b, err := s.currentBattle(ctx, tx, playerID, s.now())
		if err != nil {
			return err
		}
		battle = b
		return nil
	})
	return battle, err
}

// Replay 按记录的抽取值重建一次旋转
func (s *GameService) Replay(ctx context.Context, roundID string) (*ReplayOutcome, error) {
	record, err := s.repos.SpinRecord().FindByRoundID(ctx, roundID)
	if err != nil {
		return nil, lookupError(err)
	}

	boost, err := s.engine.Boosts().ByLabel(record.Boost)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrReplayFailed, "档位 %s 已不存在", record.Boost)
	}
	bet := slot.Bet{Boost: boost, Lines: slot.LineChoice(record.Lines)}

	spin, err := s.engine.Replay(bet, record.Draws)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrReplayFailed)
	}
	if spin.Result.Winnings.Payout != record.Payout {
		// 档位配置改过之后回放的收益会和记录不同
		s.logger.Warn("回放收益与记录不一致",
			zap.String("round_id", roundID),
			zap.Int64("recorded", record.Payout),
			zap.Int64("replayed", spin.Result.Winnings.Payout),
		)
	}

	return &ReplayOutcome{Record: record, Result: spin.Result}, nil
}

// History 玩家旋转记录
func (s *GameService) History(ctx context.Context, playerID uint, pagination *repository.Pagination) ([]*models.SpinRecord, error) {
	records, err := s.repos.SpinRecord().ListByPlayer(ctx, playerID, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return records, nil
}

// Deposit 充值Tronium
func (s *GameService) Deposit(ctx context.Context, playerID uint, amount int64) (*models.Player, error) {
	if amount <= 0 {
		return nil, apperrors.Newf(apperrors.ErrInvalidAmount, "充值金额必须大于0: %d", amount)
	}

	player, err := s.adjustBalance(ctx, playerID, func(p *models.Player) error {
		p.Tronium += amount
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("充值", zap.Uint("player_id", playerID), zap.Int64("amount", amount), zap.Int64("balance", player.Tronium))
	s.publishBalance(player, "deposit")
	return player, nil
}

// CashOut 提取全部Tronium，返回提取数量
func (s *GameService) CashOut(ctx context.Context, playerID uint) (int64, *models.Player, error) {
	var cashed int64
	player, err := s.adjustBalance(ctx, playerID, func(p *models.Player) error {
		if p.Tronium <= 0 {
			return apperrors.New(apperrors.ErrInsufficientTronium, "没有可提取的Tronium")
		}
		cashed = p.Tronium
		p.Tronium = 0
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	s.logger.Info("提现", zap.Uint("player_id", playerID), zap.Int64("amount", cashed))
	s.publishBalance(player, "cashout")
	return cashed, player, nil
}

// adjustBalance 在事务中修改玩家余额
func (s *GameService) adjustBalance(ctx context.Context, playerID uint, fn func(p *models.Player) error) (*models.Player, error) {
	var player *models.Player
	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		p, err := tx.Player().FindByIDForUpdate(ctx, playerID)
		if err != nil {
			return lookupError(err)
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := tx.Player().Update(ctx, p); err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseUpdate)
		}
		player = p
		return nil
	})
	return player, err
}

func (s *GameService) publishBalance(player *models.Player, reason string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.SendToPlayer(player.ID, EventBalance, BalanceEvent{Tronium: player.Tronium, Reason: reason}); err != nil {
		s.logger.Debug("推送余额失败", zap.Error(err))
	}
}

// Status 玩家能否继续游戏
func (s *GameService) Status(ctx context.Context, playerID uint) (*StatusInfo, error) {
	player, err := s.repos.Player().FindByID(ctx, playerID)
	if err != nil {
		return nil, lookupError(err)
	}

	ladder := s.engine.Boosts()
	return &StatusInfo{
		Status:      StatusFor(player, ladder),
		Tronium:     player.Tronium,
		CheapestBet: ladder.Cheapest(),
		Boosts:      ladder.All(),
	}, nil
}

// betError 把引擎的下注错误转换为应用错误
func betError(err error) error {
	switch {
	case errors.Is(err, slot.ErrIllegalLines):
		return apperrors.Wrap(err, apperrors.ErrIllegalLines)
	case errors.Is(err, slot.ErrInvalidBoost):
		return apperrors.Wrap(err, apperrors.ErrInvalidBoost)
	default:
		return apperrors.Wrap(err, apperrors.ErrInvalidBet)
	}
}

// lookupError 查询错误，记录不存在时返回 ErrNotFound
func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.Wrap(err, apperrors.ErrNotFound)
	}
	return apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
}
