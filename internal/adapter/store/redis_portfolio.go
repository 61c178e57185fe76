package store

import (
	"aurum-core/internal/domain/entity"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisPortfolioStore struct {
	client *redis.Client
}

func NewRedisPortfolioStore(client *redis.Client) *RedisPortfolioStore {
	return &RedisPortfolioStore{client: client}
}

func orderKey(orderID string) string     { return "gold:order:" + orderID }
func userOrdersKey(userID string) string { return "gold:user:" + userID + ":orders" }
func holdingKey(userID string) string    { return "gold:holding:" + userID }

func (s *RedisPortfolioStore) SaveOrder(ctx context.Context, order *entity.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, orderKey(order.ID), data, 0)
	pipe.LPush(ctx, userOrdersKey(order.UserID), order.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisPortfolioStore) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return getOrder(ctx, s.client, orderID)
}

func (s *RedisPortfolioStore) ListOrders(ctx context.Context, userID string) ([]*entity.Order, error) {
	ids, err := s.client.LRange(ctx, userOrdersKey(userID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	orders := make([]*entity.Order, 0, len(ids))
	for _, id := range ids {
		order, err := s.GetOrder(ctx, id)
		if errors.Is(err, entity.ErrOrderNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// MarkPaid reports whether this call moved the order out of pending. Replayed
// notifications for an already settled order credit nothing.
func (s *RedisPortfolioStore) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	credited := false
	key := orderKey(orderID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		order, err := getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderStatusPending {
			return nil
		}

		order.Status = entity.OrderStatusPaid
		order.UpdatedAt = time.Now()
		data, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("encode order: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.HIncrByFloat(ctx, holdingKey(order.UserID), "grams", order.Grams)
			pipe.HIncrBy(ctx, holdingKey(order.UserID), "invested", order.Amount)
			return nil
		})
		if err == nil {
			credited = true
		}
		return err
	}, key)

	return credited, err
}

func (s *RedisPortfolioStore) MarkFailed(ctx context.Context, orderID string) error {
	key := orderKey(orderID)
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		order, err := getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderStatusPending {
			return nil
		}
		order.Status = entity.OrderStatusFailed
		order.UpdatedAt = time.Now()
		data, err := json.Marshal(order)
		if err != nil {
			return fmt.Errorf("encode order: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
}

func (s *RedisPortfolioStore) GetHolding(ctx context.Context, userID string) (*entity.Holding, error) {
	fields, err := s.client.HGetAll(ctx, holdingKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	holding := &entity.Holding{UserID: userID}
	if v, ok := fields["grams"]; ok {
		holding.TotalGrams, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := fields["invested"]; ok {
		holding.TotalInvested, _ = strconv.ParseInt(v, 10, 64)
	}
	return holding, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getOrder(ctx context.Context, c stringGetter, orderID string) (*entity.Order, error) {
	raw, err := c.Get(ctx, orderKey(orderID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	var order entity.Order
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", orderID, err)
	}
	return &order, nil
}
