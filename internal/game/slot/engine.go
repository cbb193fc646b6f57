package slot

import (
	"errors"
	"fmt"
)

var (
	ErrCatalogAlreadyCreated = errors.New("结果表已创建")
	ErrBadProbabilitySum     = errors.New("结果概率之和不为1")
	ErrNoMoveForDraw         = errors.New("逻辑错误: 找不到抽取值对应的结果")
	ErrInvalidMove           = errors.New("无效的结果配置")
	ErrIllegalLines          = errors.New("非法的下注线数")
	ErrMoveCountMismatch     = errors.New("结果数量与下注线数不一致")
	ErrInvalidBoost          = errors.New("无效的加成档位")
	ErrInvalidSymbol         = errors.New("无效的符号")
	ErrEmptyRegistry         = errors.New("符号表为空")
)

// Engine 卷轴结算引擎：结果表 + 加成档位 + 随机数源
// 引擎本身无可变状态，可被多个请求并发使用
type Engine struct {
	catalog *Catalog
	boosts  *BoostLadder
	source  RandomSource
}

// SpinOutcome 一次旋转的抽取值和结果
type SpinOutcome struct {
	Bet    Bet        `json:"bet"`
	Draws  []float64  `json:"draws"`
	Result *BetResult `json:"result"`
}

// NewEngine 创建引擎
func NewEngine(catalog *Catalog, boosts *BoostLadder, source RandomSource) (*Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: nil catalog", ErrInvalidMove)
	}
	if boosts == nil {
		return nil, fmt.Errorf("%w: nil ladder", ErrInvalidBoost)
	}
	if source == nil {
		source = NewCryptoSource()
	}
	return &Engine{
		catalog: catalog,
		boosts:  boosts,
		source:  source,
	}, nil
}

// NewDefaultEngine 标准结果表 + 默认档位 + 加密随机数
func NewDefaultEngine() *Engine {
	ladder, err := NewBoostLadder(DefaultBoosts())
	if err != nil {
		panic(err)
	}
	return &Engine{
		catalog: DefaultCatalog(),
		boosts:  ladder,
		source:  NewCryptoSource(),
	}
}

// Catalog 结果表
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Boosts 加成档位
func (e *Engine) Boosts() *BoostLadder {
	return e.boosts
}

// NewBet 按档位名称和线数创建下注
func (e *Engine) NewBet(boostLabel string, lines int) (Bet, error) {
	boost, err := e.boosts.ByLabel(boostLabel)
	if err != nil {
		return Bet{}, err
	}
	bet := Bet{Boost: boost, Lines: LineChoice(lines)}
	if err := bet.Validate(); err != nil {
		return Bet{}, err
	}
	return bet, nil
}

// Spin 使用引擎的随机数源旋转一次
func (e *Engine) Spin(bet Bet) (*SpinOutcome, error) {
	return e.SpinWith(bet, e.source)
}

// SpinWith 使用指定随机数源旋转一次：每条下注线一次独立抽取
func (e *Engine) SpinWith(bet Bet, src RandomSource) (*SpinOutcome, error) {
	if err := bet.Validate(); err != nil {
		return nil, err
	}
	draws, moves, err := e.catalog.DrawN(src, bet.Lines.Count())
	if err != nil {
		return nil, err
	}
	result, err := e.catalog.ToBetResult(bet, moves, src)
	if err != nil {
		return nil, err
	}
	return &SpinOutcome{Bet: bet, Draws: draws, Result: result}, nil
}

// Replay 按记录的抽取值重建结果
// 收益和中奖状态与原结果一致；填充行和填充符号会重新随机
func (e *Engine) Replay(bet Bet, draws []float64) (*SpinOutcome, error) {
	if err := bet.Validate(); err != nil {
		return nil, err
	}
	moves, err := e.catalog.ResolveAll(draws)
	if err != nil {
		return nil, err
	}
	result, err := e.catalog.ToBetResult(bet, moves, e.source)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(draws))
	copy(out, draws)
	return &SpinOutcome{Bet: bet, Draws: out, Result: result}, nil
}
