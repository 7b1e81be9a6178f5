// The notifier drains message.posted events and records per-channel
// activity counters in redis. Delivery stays pull-based: clients poll the
// API, nothing is pushed to them.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pulsechat/pulse-backend/internal/config"
	"github.com/pulsechat/pulse-backend/internal/store/rabbitmq"
	"github.com/pulsechat/pulse-backend/internal/store/redisstore"
	amqp "github.com/rabbitmq/amqp091-go"
)

func notifierConcurrency() int {
	v := os.Getenv("NOTIFIER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("rabbit dial: %v", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbit channel: %v", err)
	}
	defer ch.Close()

	// same declaration as the publisher so either side may start first
	if _, err := ch.QueueDeclare(cfg.RabbitQueue+".dlq", true, false, false, false, nil); err != nil {
		log.Fatalf("dlq declare: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitQueue+".retry", true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitQueue,
	}); err != nil {
		log.Fatalf("retry declare: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.RabbitQueue + ".dlq",
	}); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	concurrency := notifierConcurrency()
	if err := ch.Qos(concurrency, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("notifier started, queue=%s concurrency=%d", cfg.RabbitQueue, concurrency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var ev rabbitmq.MessagePostedEvent
				if err := json.Unmarshal(d.Body, &ev); err != nil || ev.MessageID == 0 {
					log.Printf("worker=%d bad event: %v", workerID, err)
					_ = d.Nack(false, false)
					continue
				}

				if err := handleEvent(ctx, rds, ev); err != nil {
					log.Printf("worker=%d event message=%d failed err=%v", workerID, ev.MessageID, err)
					_ = d.Nack(false, false)
					continue
				}

				if err := d.Ack(false); err != nil {
					log.Printf("worker=%d ack failed message=%d err=%v", workerID, ev.MessageID, err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("notifier shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				log.Printf("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}

func handleEvent(ctx context.Context, rds *redisstore.Store, ev rabbitmq.MessagePostedEvent) error {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	total, err := rds.IncrChannelActivity(cctx, ev.ChannelID)
	if err != nil {
		return err
	}
	log.Printf("channel_activity channel=%d message=%d author=%s total=%d",
		ev.ChannelID, ev.MessageID, ev.AuthorID, total)
	return nil
}
