package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
)

// runInTx 在同一事务内执行 fn，fn 返回错误或 panic 时回滚
// 单元测试中 Repository 未注入连接，BeginTx 返回 nil 事务，fn 直接作用于原聚合
func runInTx(ctx context.Context, repo *repository.Repository, logger *zap.Logger, fn func(txRepo *repository.Repository) error) error {
	tx, err := repo.BeginTx(ctx)
	if err != nil {
		logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := fn(repo.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}
