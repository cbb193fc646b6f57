package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/battle-slot/internal/models"
	"gorm.io/gorm"
)

// TransactionTestSuite 事务测试套件
type TransactionTestSuite struct {
	suite.Suite
	db      *gorm.DB
	manager *Manager
}

func (suite *TransactionTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.manager = NewManager(suite.db)
}

func (suite *TransactionTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestTransaction_Commit 测试提交
func (suite *TransactionTestSuite) TestTransaction_Commit() {
	ctx := context.Background()

	err := suite.manager.WithTransaction(ctx, func(tx *Transaction) error {
		player := &models.Player{Name: "luna", Tronium: 100}
		if err := tx.Player().Create(ctx, player); err != nil {
			return err
		}
		return tx.SpinRecord().Create(ctx, &models.SpinRecord{
			RoundID:  "r1",
			PlayerID: player.ID,
			BattleID: 1,
			Boost:    "Normal",
			Lines:    1,
			Cost:     10,
		})
	})
	require.NoError(suite.T(), err)

	player, err := suite.manager.Player().FindByName(ctx, "luna")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(100), player.Tronium)

	_, err = suite.manager.SpinRecord().FindByRoundID(ctx, "r1")
	assert.NoError(suite.T(), err)
}

// TestTransaction_Rollback 测试回滚
func (suite *TransactionTestSuite) TestTransaction_Rollback() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := suite.manager.WithTransaction(ctx, func(tx *Transaction) error {
		if err := tx.Player().Create(ctx, &models.Player{Name: "ghost"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(suite.T(), err, boom)

	_, err = suite.manager.Player().FindByName(ctx, "ghost")
	assert.True(suite.T(), errors.Is(err, ErrNotFound))
}

// TestTransaction_DoubleCommit 测试重复提交
func (suite *TransactionTestSuite) TestTransaction_DoubleCommit() {
	tx, err := suite.manager.Transaction().Begin(context.Background())
	require.NoError(suite.T(), err)

	assert.NoError(suite.T(), tx.Commit())
	assert.Error(suite.T(), tx.Commit())
	assert.Error(suite.T(), tx.Rollback())
}

// TestTransaction_ReadOnly 只读事务可以读
func (suite *TransactionTestSuite) TestTransaction_ReadOnly() {
	ctx := context.Background()
	CreateTestPlayer(suite.db, "vega", 7)

	err := suite.manager.WithReadOnlyTransaction(ctx, func(tx *Transaction) error {
		p, err := tx.Player().FindByName(ctx, "vega")
		if err != nil {
			return err
		}
		assert.Equal(suite.T(), int64(7), p.Tronium)
		return nil
	})
	assert.NoError(suite.T(), err)
}

func TestTransactionTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}
