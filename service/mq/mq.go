package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"rag-console-backend/config"
	"rag-console-backend/service/ingest"

	"github.com/apache/rocketmq-client-go/v2"
	c "github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
)

const (
	TopicIngest = "topic_rag_ingest"
	TagCrawl    = "tag_crawl"

	consumeGroupIngest = "cg_rag_ingest"

	sendMessageAttempts  = 3
	maxReconsumeTimes    = 5
	consumeGoroutineNums = 10
)

var (
	// 全局生产者
	producerInstance rocketmq.Producer

	// 摄取业务消费者
	consumerIngest rocketmq.PushConsumer
)

// CrawlMessage 站点爬取任务消息
type CrawlMessage struct {
	JobID  string `json:"job_id"`
	SiteID int64  `json:"site_id"`
}

// Init 创建生产者与消费者并订阅爬取任务，消费时回调摄取服务
func Init(cfg *config.MQConfig, svc *ingest.Service) error {
	// 设置RocketMQ客户端（使用rlog）的日志级别
	rlog.SetLogLevel("warn")

	var err error
	consumerIngest, err = rocketmq.NewPushConsumer(
		c.WithNameServer(cfg.NameServer),
		c.WithGroupName(consumeGroupIngest),
		c.WithConsumerModel(c.Clustering),
		c.WithConsumeFromWhere(c.ConsumeFromLastOffset),
		c.WithMaxReconsumeTimes(maxReconsumeTimes),
		c.WithConsumeGoroutineNums(consumeGoroutineNums),
	)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %v", err)
	}

	producerInstance, err = rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
	)
	if err != nil {
		return fmt.Errorf("failed to create producer: %v", err)
	}

	selector := c.MessageSelector{
		Type:       c.TAG,
		Expression: TagCrawl,
	}
	err = consumerIngest.Subscribe(TopicIngest, selector, func(ctx context.Context, messages ...*primitive.MessageExt) (c.ConsumeResult, error) {
		for _, msg := range messages {
			if err := handleCrawlMessage(ctx, svc, msg); err != nil {
				slog.Error("Failed to process message",
					"topic", msg.Topic,
					"msg_id", msg.MsgId,
					"error", err)
				return c.ConsumeRetryLater, err
			}
		}
		return c.ConsumeSuccess, nil
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %v", TopicIngest, err)
	}

	if err := producerInstance.Start(); err != nil {
		return fmt.Errorf("failed to start producer: %v", err)
	}

	if err := consumerIngest.Start(); err != nil {
		return fmt.Errorf("failed to start consumer: %v", err)
	}
	return nil
}

func handleCrawlMessage(ctx context.Context, svc *ingest.Service, msg *primitive.MessageExt) error {
	var crawlMessage CrawlMessage
	if err := json.Unmarshal(msg.Body, &crawlMessage); err != nil {
		return fmt.Errorf("failed to unmarshal message body: %v", err)
	}

	slog.Info("crawl task received",
		"job_id", crawlMessage.JobID,
		"site_id", crawlMessage.SiteID,
	)
	return svc.ExecuteCrawl(ctx, crawlMessage.SiteID)
}

// SendCrawlTask 发送站点爬取任务
func SendCrawlTask(ctx context.Context, siteID int64) error {
	payload, err := json.Marshal(CrawlMessage{
		JobID:  uuid.New().String(),
		SiteID: siteID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	msg := primitive.NewMessage(TopicIngest, payload).WithTag(TagCrawl)

	err = retry.Do(
		func() error {
			_, err := producerInstance.SendSync(ctx, msg)
			return err
		},
		retry.Attempts(sendMessageAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying to send message",
				"attempt", n+1,
				"topic", msg.Topic,
				"err", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s after retries: %v", msg.Topic, err)
	}

	return nil
}

// Shutdown 关闭MQ服务
func Shutdown() {
	if producerInstance != nil {
		producerInstance.Shutdown()
	}
	if consumerIngest != nil {
		consumerIngest.Shutdown()
	}
}
