package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/wfunc/battle-slot/internal/config"
	"github.com/wfunc/battle-slot/internal/game"
	"github.com/wfunc/battle-slot/internal/game/slot"
	"github.com/wfunc/battle-slot/internal/logger"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "", "配置文件路径，读取加成档位")
		spins      = flag.Int("spins", 100000, "旋转次数")
		boost      = flag.String("boost", "Normal", "加成档位")
		lines      = flag.Int("lines", 1, "线数 1-3")
		seed       = flag.Uint64("seed", 0, "随机种子，0表示使用加密随机数")
		asJSON     = flag.Bool("json", false, "以JSON输出")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg.Log.Output = "stdout"
	cfg.Log.Format = "console"
	cfg.Log.Level = "warn"
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	gameCfg := cfg.Game
	if *seed != 0 {
		gameCfg.RandomSource = "seeded"
		gameCfg.Seed = *seed
	} else {
		gameCfg.RandomSource = "crypto"
	}

	engine, err := game.NewEngine(&gameCfg)
	if err != nil {
		logger.Fatal("创建引擎失败", zap.Error(err))
	}
	bet, err := engine.NewBet(*boost, *lines)
	if err != nil {
		logger.Fatal("下注无效", zap.String("boost", *boost), zap.Int("lines", *lines), zap.Error(err))
	}

	res, err := slot.Simulate(engine, bet, *spins, nil)
	if err != nil {
		logger.Fatal("模拟失败", zap.Error(err))
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			logger.Fatal("输出失败", zap.Error(err))
		}
		return
	}

	catalog := engine.Catalog()
	fmt.Printf("下注: %s x %d 线, 每次 %d Tronium\n", bet.Boost.Label, bet.Lines.Count(), bet.Cost())
	fmt.Printf("结果表: 每线期望回报 %.5f, 中奖概率 %.4f\n", catalog.ExpectedPayout(), catalog.WinProbability())
	fmt.Println(res.String())

	ids := make([]string, 0, len(res.MoveCounts))
	for id := range res.MoveCounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return res.MoveCounts[ids[i]] > res.MoveCounts[ids[j]] })
	for _, id := range ids {
		n := res.MoveCounts[id]
		fmt.Printf("  %-12s %8d  %.4f\n", id, n, float64(n)/float64(res.Spins*bet.Lines.Count()))
	}
}
