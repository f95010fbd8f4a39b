package rdb

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 事务管理器，实现shared.Transactor
// 事务DB放进context，Repository通过getDB(ctx)取出，从而共享同一个事务
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    count, err := authorRepo.CountBooks(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    if count > 0 {
//	        return author.ErrHasBooks // 回滚
//	    }
//	    return authorRepo.Delete(ctx, id) // nil则提交
//	})
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 在事务中执行fn；已在事务中时直接复用外层事务
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// getDB 优先使用context中的事务DB
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
