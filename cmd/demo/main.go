package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/myshop/internal/app"
	"github.com/vladislavdragonenkov/myshop/internal/domain"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("failed to load .env file")
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := app.DefaultConfig()
	flag.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: memory|postgres|orm")
	flag.StringVar(&cfg.EventsDriver, "events", cfg.EventsDriver, "events driver: none|kafka|amqp")
	flag.Parse()

	cfg.DB.URL = os.Getenv("SHOP_DB_URL")
	cfg.DB.User = os.Getenv("SHOP_DB_USER")
	cfg.DB.Password = os.Getenv("SHOP_DB_PASSWORD")
	cfg.KafkaBrokers = os.Getenv("SHOP_KAFKA_BROKERS")
	cfg.AMQPURL = os.Getenv("SHOP_AMQP_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.WithError(err).Fatal("demo failed")
	}
}

// run заводит покупателя с корзиной и оформляет заказ.
func run(ctx context.Context, cfg app.Config, out io.Writer) error {
	deps, err := app.NewDependencies(ctx, cfg, log.WithField("component", "demo"))
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()

	user, err := deps.Repos.Users.Create(ctx, domain.User{Username: "demo", Email: "demo@example.com"})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	catalog := []struct {
		name     string
		price    string
		quantity int32
	}{
		{"Laptop", "1999.99", 1},
		{"Mouse", "29.50", 2},
	}
	for _, item := range catalog {
		product, err := deps.Repos.Products.Create(ctx, domain.Product{Name: item.name, Price: decimal.RequireFromString(item.price)})
		if err != nil {
			return fmt.Errorf("create product %s: %w", item.name, err)
		}
		if err := deps.Repos.Carts.AddProduct(ctx, user.ID, product.ID, item.quantity); err != nil {
			return fmt.Errorf("add %s to cart: %w", item.name, err)
		}
	}

	order, err := deps.Orders.PlaceOrder(ctx, user.ID)
	if err != nil && !domain.IsCartNotCleared(err) {
		return fmt.Errorf("place order: %w", err)
	}
	if err != nil {
		_, _ = fmt.Fprintf(out, "warning: %v\n", err)
	}

	_, _ = fmt.Fprintf(out, "order #%d for user #%d\n", order.ID, order.UserID)
	_, _ = fmt.Fprintf(out, "products: %s\n", order.OrderedProducts)
	_, _ = fmt.Fprintf(out, "total: %s\n", order.TotalAmount.StringFixed(domain.MoneyScale))
	return nil
}
