package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ostrenko/skyfare/config"
	"github.com/ostrenko/skyfare/internal/domain"
	"github.com/ostrenko/skyfare/internal/repository"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	airportsTTL time.Duration
	searchTTL   time.Duration
}

func NewRedisCache(cfg config.RedisConfig, airportsTTL, searchTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		airportsTTL: airportsTTL,
		searchTTL:   searchTTL,
	}
}

func (c *RedisCache) GetAirports(ctx context.Context) ([]domain.Airport, error) {
	data, err := c.client.Get(ctx, airportsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var airports []domain.Airport
	if err := json.Unmarshal(data, &airports); err != nil {
		return nil, err
	}
	return airports, nil
}

func (c *RedisCache) SetAirports(ctx context.Context, airports []domain.Airport) error {
	payload, err := json.Marshal(airports)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, airportsKey(), payload, c.airportsTTL).Err()
}

func (c *RedisCache) GetSearch(ctx context.Context, q repository.SearchQuery) ([]domain.FlightOffer, error) {
	data, err := c.client.Get(ctx, searchKey(q)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var offers []domain.FlightOffer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *RedisCache) SetSearch(ctx context.Context, q repository.SearchQuery, offers []domain.FlightOffer) error {
	payload, err := json.Marshal(offers)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(q), payload, c.searchTTL).Err()
}

func airportsKey() string {
	return "cache:airports"
}

func searchKey(q repository.SearchQuery) string {
	return fmt.Sprintf("cache:search:%s:%s:%s:%s", q.Origin, q.Destination, q.Date.Format("2006-01-02"), q.CabinClass)
}
