package slot

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
	"sync"
)

// RandomSource 随机数源，返回 [0,1) 的均匀分布浮点数
// 引擎内所有随机行为（结果抽取、填充符号、洗牌）都只经过这一个接口
type RandomSource interface {
	Float64() float64
}

// CryptoSource 加密安全的随机数源，可并发使用
type CryptoSource struct{}

// NewCryptoSource 创建加密随机数源
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Float64 生成 [0,1) 随机数（53位精度）
func (CryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(fmt.Sprintf("slot: crypto/rand failed: %v", err))
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// SeededSource 可复现的伪随机数源，用于模拟和测试
type SeededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource 使用种子创建伪随机数源
func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{
		rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Float64 生成 [0,1) 随机数
func (s *SeededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// ScriptedSource 按给定序列返回随机数，只用于测试
type ScriptedSource struct {
	draws []float64
	pos   int
}

// NewScriptedSource 创建脚本随机数源
func NewScriptedSource(draws ...float64) *ScriptedSource {
	return &ScriptedSource{draws: draws}
}

// Float64 返回下一个脚本值，用尽时panic
func (s *ScriptedSource) Float64() float64 {
	if s.pos >= len(s.draws) {
		panic(fmt.Sprintf("slot: scripted source exhausted after %d draws", len(s.draws)))
	}
	v := s.draws[s.pos]
	s.pos++
	return v
}

// Consumed 已消耗的随机数个数
func (s *ScriptedSource) Consumed() int {
	return s.pos
}

// pickIndex 把一次抽取映射到 [0,n)
func pickIndex(src RandomSource, n int) int {
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// shuffle 原地洗牌，从最后一个位置向前
func shuffle[T any](src RandomSource, items []T) []T {
	for i := len(items) - 1; i > 0; i-- {
		j := pickIndex(src, i+1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}
